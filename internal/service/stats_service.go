package service

import (
	"alcyxob/fitplan/internal/repository"
	"context"
)

// Stats are the dashboard counters.
type Stats struct {
	ActiveWorkouts int   `json:"activeWorkouts"`
	TotalClients   int   `json:"totalClients"`
	ExportedPDFs   int64 `json:"exportedPdfs"`
}

type StatsService interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type statsService struct {
	workoutRepo repository.WorkoutRepository
	clientRepo  repository.ClientRepository
	documents   DocumentService
}

func NewStatsService(workoutRepo repository.WorkoutRepository, clientRepo repository.ClientRepository, documents DocumentService) StatsService {
	return &statsService{workoutRepo: workoutRepo, clientRepo: clientRepo, documents: documents}
}

func (s *statsService) GetStats(ctx context.Context) (*Stats, error) {
	workouts, err := s.workoutRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		ActiveWorkouts: len(workouts),
		TotalClients:   len(clients),
		ExportedPDFs:   s.documents.ExportedCount(),
	}, nil
}
