package service

import (
	"alcyxob/fitplan/internal/backup"
	"alcyxob/fitplan/internal/cache"
	"alcyxob/fitplan/internal/metrics"
	"alcyxob/fitplan/internal/storage"
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// BackupFile is an encoded backup envelope.
type BackupFile struct {
	Data     []byte
	Filename string
	// ArchiveURL is set when the backup was also uploaded to the archive.
	ArchiveURL string
}

// ImportSummary reports what an import put in place.
type ImportSummary struct {
	Workouts     int  `json:"workouts"`
	Clients      int  `json:"clients"`
	CoachProfile bool `json:"coachProfile"`
}

type BackupService interface {
	Export(ctx context.Context) (*BackupFile, error)
	// Import replaces the whole store. Malformed input returns an error
	// wrapping backup.ErrInvalidFormat and leaves the store unchanged.
	Import(ctx context.Context, data []byte) (*ImportSummary, error)
	Stats(ctx context.Context) (*backup.Stats, error)
}

type backupService struct {
	codec       *backup.Codec
	metrics     *metrics.Manager
	archive     storage.FileStorage // optional
	renderCache *cache.RenderCache  // optional
}

// NewBackupService builds the service. renderCache, when set, is emptied after
// every successful import.
func NewBackupService(codec *backup.Codec, metricsManager *metrics.Manager, archive storage.FileStorage, renderCache *cache.RenderCache) BackupService {
	return &backupService{codec: codec, metrics: metricsManager, archive: archive, renderCache: renderCache}
}

func (s *backupService) Export(ctx context.Context) (*BackupFile, error) {
	env, at, err := s.codec.Export(ctx)
	if err != nil {
		return nil, err
	}
	data, err := backup.Encode(env)
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	s.metrics.CounterBackupExports.Inc()
	file := &BackupFile{Data: data, Filename: backup.Filename(at)}

	if s.archive != nil {
		key := storage.BackupKey(file.Filename)
		if err := s.archive.PutObject(ctx, key, data, storage.ContentTypeJSON); err != nil {
			log.Warnf("archive backup %s: %v", key, err)
		} else if url, err := s.archive.GeneratePresignedDownloadURL(ctx, key, 0); err != nil {
			log.Warnf("presign backup %s: %v", key, err)
		} else {
			file.ArchiveURL = url
		}
	}
	return file, nil
}

func (s *backupService) Import(ctx context.Context, data []byte) (*ImportSummary, error) {
	env, err := s.codec.DecodeNow(data)
	if err != nil {
		s.metrics.CounterBackupImports.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if err := s.codec.Import(ctx, env); err != nil {
		s.metrics.CounterBackupImports.WithLabelValues("failed").Inc()
		return nil, err
	}
	s.metrics.CounterBackupImports.WithLabelValues("ok").Inc()
	if s.renderCache != nil {
		s.renderCache.Clear()
	}
	return &ImportSummary{
		Workouts:     len(env.Workouts),
		Clients:      len(env.Clients),
		CoachProfile: env.CoachProfile != nil,
	}, nil
}

func (s *backupService) Stats(ctx context.Context) (*backup.Stats, error) {
	return s.codec.Stats(ctx)
}
