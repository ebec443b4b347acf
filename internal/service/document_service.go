package service

import (
	"alcyxob/fitplan/internal/cache"
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/layout"
	"alcyxob/fitplan/internal/metrics"
	"alcyxob/fitplan/internal/repository"
	"alcyxob/fitplan/internal/storage"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// PlanRenderer turns a workout into a printable document.
type PlanRenderer interface {
	Render(ctx context.Context, workout *domain.Workout, profile *domain.CoachProfile) (*layout.Document, error)
}

// RenderedPlan is a generated PDF ready to be handed out.
type RenderedPlan struct {
	Data          []byte
	Filename      string
	SuggestedPath string
	Pages         int
	SkippedImages int
	Cached        bool
	// ArchiveURL is a presigned download link when archiving is on and the upload worked.
	ArchiveURL string
}

type DocumentService interface {
	RenderWorkout(ctx context.Context, workoutID string) (*RenderedPlan, error)
	// ExportedCount is the number of PDFs handed out since start.
	ExportedCount() int64
}

// DocumentOptions holds the optional collaborators of the document service.
type DocumentOptions struct {
	Cache   *cache.RenderCache
	Archive storage.FileStorage
	Timeout time.Duration
	Now     func() time.Time
}

type documentService struct {
	workoutRepo repository.WorkoutRepository
	profileRepo repository.CoachProfileRepository
	renderer    PlanRenderer
	metrics     *metrics.Manager
	opts        DocumentOptions

	exported atomic.Int64
}

func NewDocumentService(
	workoutRepo repository.WorkoutRepository,
	profileRepo repository.CoachProfileRepository,
	renderer PlanRenderer,
	metricsManager *metrics.Manager,
	opts DocumentOptions,
) DocumentService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &documentService{
		workoutRepo: workoutRepo,
		profileRepo: profileRepo,
		renderer:    renderer,
		metrics:     metricsManager,
		opts:        opts,
	}
}

// RenderWorkout lays out the stored workout with the current coach profile.
// A missing profile is not an error; the document is rendered without branding.
func (s *documentService) RenderWorkout(ctx context.Context, workoutID string) (*RenderedPlan, error) {
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, mapRepoError(err, ErrWorkoutNotFound)
	}
	profile, err := s.profileRepo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		profile = nil
	} else if err != nil {
		return nil, fmt.Errorf("load coach profile: %w", err)
	}

	plan, err := s.render(ctx, w, profile)
	if err != nil {
		return nil, err
	}
	exportPath := ""
	if profile != nil {
		exportPath = profile.ExportPath
	}
	plan.SuggestedPath = layout.SuggestedPath(exportPath, plan.Filename)

	s.exported.Add(1)
	s.metrics.CounterExportedPDFs.Inc()

	if s.opts.Archive != nil {
		plan.ArchiveURL = s.archive(ctx, w.ID, plan)
	}
	return plan, nil
}

func (s *documentService) render(ctx context.Context, w *domain.Workout, profile *domain.CoachProfile) (*RenderedPlan, error) {
	var key []byte
	if s.opts.Cache != nil {
		key = cache.Key(w, profile, s.opts.Now())
		if entry, ok := s.opts.Cache.Get(key); ok {
			s.metrics.CounterRenderCacheHit.Inc()
			return &RenderedPlan{
				Data:     entry.Data,
				Filename: layout.Filename(w.ClientName),
				Pages:    entry.Pages,
				Cached:   true,
			}, nil
		}
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	start := time.Now()
	doc, err := s.renderer.Render(ctx, w, profile)
	if err != nil {
		return nil, fmt.Errorf("render workout %s: %w", w.ID, err)
	}
	s.metrics.HistRenderDuration.Observe(time.Since(start).Seconds())
	if doc.SkippedImages > 0 {
		s.metrics.CounterSkippedImages.Add(float64(doc.SkippedImages))
	}
	log.WithFields(log.Fields{
		"workout": w.ID,
		"pages":   doc.Pages,
		"bytes":   len(doc.Data),
		"skipped": doc.SkippedImages,
	}).Debug("plan rendered")

	if s.opts.Cache != nil {
		s.opts.Cache.Set(key, &cache.Entry{Data: doc.Data, Pages: doc.Pages})
	}
	return &RenderedPlan{
		Data:          doc.Data,
		Filename:      doc.Filename,
		Pages:         doc.Pages,
		SkippedImages: doc.SkippedImages,
	}, nil
}

// archive uploads the PDF and returns a download link, or "" on failure.
func (s *documentService) archive(ctx context.Context, workoutID string, plan *RenderedPlan) string {
	key := storage.PlanKey(workoutID, plan.Filename)
	if err := s.opts.Archive.PutObject(ctx, key, plan.Data, storage.ContentTypePDF); err != nil {
		log.Warnf("archive plan %s: %v", key, err)
		return ""
	}
	url, err := s.opts.Archive.GeneratePresignedDownloadURL(ctx, key, 0)
	if err != nil {
		log.Warnf("presign plan %s: %v", key, err)
		return ""
	}
	return url
}

func (s *documentService) ExportedCount() int64 {
	return s.exported.Load()
}
