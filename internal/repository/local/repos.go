package local

import (
	"alcyxob/fitplan/internal/domain"
	"alcyxob/fitplan/internal/repository"
	"context"
)

// workoutRepo implements repository.WorkoutRepository
type workoutRepo struct {
	s *Store
}

func (r *workoutRepo) GetAll(ctx context.Context) ([]domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedWorkouts(r.s.workouts), nil
}

func (r *workoutRepo) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := w.Clone()
	return &clone, nil
}

func (r *workoutRepo) GetByClientName(ctx context.Context, clientName string) ([]domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matches := map[string]domain.Workout{}
	for id, w := range r.s.workouts {
		if w.ClientName == clientName {
			matches[id] = w
		}
	}
	return sortedWorkouts(matches), nil
}

func (r *workoutRepo) Create(ctx context.Context, workout *domain.Workout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	workout.ID = r.s.newID()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	workout.Version = 1

	r.s.workouts[workout.ID] = workout.Clone()
	if err := r.s.persistLocked(); err != nil {
		delete(r.s.workouts, workout.ID)
		return err
	}
	return nil
}

func (r *workoutRepo) Update(ctx context.Context, workout *domain.Workout, expectedVersion int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.workouts[workout.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if expectedVersion > 0 && expectedVersion != existing.Version {
		return repository.ErrConflict
	}

	workout.CreatedAt = existing.CreatedAt
	workout.UpdatedAt = r.s.now()
	workout.Version = existing.Version + 1

	r.s.workouts[workout.ID] = workout.Clone()
	if err := r.s.persistLocked(); err != nil {
		r.s.workouts[workout.ID] = existing
		return err
	}
	return nil
}

func (r *workoutRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.workouts[id]
	if !ok {
		return false, nil
	}
	delete(r.s.workouts, id)
	if err := r.s.persistLocked(); err != nil {
		r.s.workouts[id] = existing
		return false, err
	}
	return true, nil
}

// clientRepo implements repository.ClientRepository
type clientRepo struct {
	s *Store
}

func (r *clientRepo) GetAll(ctx context.Context) ([]domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedClients(r.s.clients), nil
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

// GetByName returns the first client (oldest first) carrying exactly this name.
func (r *clientRepo) GetByName(ctx context.Context, name string) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var found *domain.Client
	for _, c := range r.s.clients {
		if c.Name != name {
			continue
		}
		if found == nil || c.CreatedAt.Before(found.CreatedAt) || (c.CreatedAt.Equal(found.CreatedAt) && c.ID < found.ID) {
			match := c
			found = &match
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *clientRepo) Create(ctx context.Context, client *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	client.ID = r.s.newID()
	client.CreatedAt = r.s.now()
	r.s.clients[client.ID] = *client
	if err := r.s.persistLocked(); err != nil {
		delete(r.s.clients, client.ID)
		return err
	}
	return nil
}

func (r *clientRepo) Update(ctx context.Context, client *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.clients[client.ID]
	if !ok {
		return repository.ErrNotFound
	}
	client.CreatedAt = existing.CreatedAt
	r.s.clients[client.ID] = *client
	if err := r.s.persistLocked(); err != nil {
		r.s.clients[client.ID] = existing
		return err
	}
	return nil
}

func (r *clientRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.clients[id]
	if !ok {
		return false, nil
	}
	delete(r.s.clients, id)
	if err := r.s.persistLocked(); err != nil {
		r.s.clients[id] = existing
		return false, err
	}
	return true, nil
}

// coachProfileRepo implements repository.CoachProfileRepository
type coachProfileRepo struct {
	s *Store
}

func (r *coachProfileRepo) Get(ctx context.Context) (*domain.CoachProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.profile == nil {
		return nil, repository.ErrNotFound
	}
	p := r.s.profile.Clone()
	return &p, nil
}

func (r *coachProfileRepo) GetByID(ctx context.Context, id string) (*domain.CoachProfile, error) {
	p, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if p.ID != id {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

// Create drops any existing profile; the new one is not merged with it.
func (r *coachProfileRepo) Create(ctx context.Context, profile *domain.CoachProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	profile.ID = r.s.newID()
	profile.ApplyDefaults()
	prev := r.s.profile
	p := profile.Clone()
	r.s.profile = &p
	if err := r.s.persistLocked(); err != nil {
		r.s.profile = prev
		return err
	}
	return nil
}

func (r *coachProfileRepo) Update(ctx context.Context, profile *domain.CoachProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.profile == nil || r.s.profile.ID != profile.ID {
		return repository.ErrNotFound
	}
	prev := r.s.profile
	profile.ApplyDefaults()
	p := profile.Clone()
	r.s.profile = &p
	if err := r.s.persistLocked(); err != nil {
		r.s.profile = prev
		return err
	}
	return nil
}
