package service

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/repository"
	"context"
)

// CoachProfileService manages the single coach profile.
type CoachProfileService interface {
	GetProfile(ctx context.Context) (*domain.CoachProfile, error)
	GetProfileByID(ctx context.Context, id string) (*domain.CoachProfile, error)
	// ReplaceProfile discards whatever profile exists and stores this one.
	ReplaceProfile(ctx context.Context, profile *domain.CoachProfile) (*domain.CoachProfile, error)
	UpdateProfile(ctx context.Context, id string, patch domain.CoachProfilePatch) (*domain.CoachProfile, error)
}

type coachProfileService struct {
	profileRepo repository.CoachProfileRepository
}

func NewCoachProfileService(profileRepo repository.CoachProfileRepository) CoachProfileService {
	return &coachProfileService{profileRepo: profileRepo}
}

func (s *coachProfileService) GetProfile(ctx context.Context) (*domain.CoachProfile, error) {
	p, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, mapRepoError(err, ErrCoachProfileNotFound)
	}
	return p, nil
}

func (s *coachProfileService) GetProfileByID(ctx context.Context, id string) (*domain.CoachProfile, error) {
	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, ErrCoachProfileNotFound)
	}
	return p, nil
}

func (s *coachProfileService) ReplaceProfile(ctx context.Context, profile *domain.CoachProfile) (*domain.CoachProfile, error) {
	if err := domain.Validate(profile); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *coachProfileService) UpdateProfile(ctx context.Context, id string, patch domain.CoachProfilePatch) (*domain.CoachProfile, error) {
	existing, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, ErrCoachProfileNotFound)
	}
	patch.Apply(existing)
	if err := domain.Validate(existing); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Update(ctx, existing); err != nil {
		return nil, mapRepoError(err, ErrCoachProfileNotFound)
	}
	return existing, nil
}
