package service

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/repository"
	"context"
	"strings"
)

type ClientService interface {
	ListClients(ctx context.Context, query string) ([]domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	CreateClient(ctx context.Context, client *domain.Client) (*domain.Client, error)
	UpdateClient(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error)
	// DeleteClient leaves workouts naming the client in place.
	DeleteClient(ctx context.Context, id string) error
}

// clientService implements the ClientService interface.
type clientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new instance of clientService.
func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

// ListClients returns every client, newest first, optionally filtered by a
// case-insensitive match on name, email or phone.
func (s *clientService) ListClients(ctx context.Context, query string) ([]domain.Client, error) {
	clients, err := s.clientRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return clients, nil
	}
	out := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Email), query) ||
			strings.Contains(c.Phone, query) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, ErrClientNotFound)
	}
	return c, nil
}

func (s *clientService) CreateClient(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	client.Name = strings.TrimSpace(client.Name)
	if err := domain.Validate(client); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	existing, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, ErrClientNotFound)
	}
	patch.Apply(existing)
	existing.Name = strings.TrimSpace(existing.Name)
	if err := domain.Validate(existing); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Update(ctx, existing); err != nil {
		return nil, mapRepoError(err, ErrClientNotFound)
	}
	return existing, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	deleted, err := s.clientRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrClientNotFound
	}
	return nil
}
