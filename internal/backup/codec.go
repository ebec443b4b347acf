package backup

import (
	"alcyxob/fitplan/internal/repository"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Stats summarises the store for the backup screen.
type Stats struct {
	WorkoutsCount int        `json:"workoutsCount"`
	ClientsCount  int        `json:"clientsCount"`
	LastBackup    *time.Time `json:"lastBackup,omitempty"`
}

// Codec moves whole-store content in and out of Envelopes.
type Codec struct {
	store repository.DataStore
	now   func() time.Time
}

func NewCodec(store repository.DataStore) *Codec {
	return &Codec{store: store, now: time.Now}
}

// WithClock overrides the time used for import defaults and the backup stamp.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Export reads every table and records the export time as the last backup.
func (c *Codec) Export(ctx context.Context) (*Envelope, time.Time, error) {
	data, err := c.store.Snapshot(ctx)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("snapshot store: %w", err)
	}
	at := c.now().UTC()
	if err := c.store.SetLastBackupAt(ctx, at); err != nil {
		return nil, time.Time{}, fmt.Errorf("record backup time: %w", err)
	}
	return &Envelope{
		Workouts:     data.Workouts,
		Clients:      data.Clients,
		CoachProfile: data.CoachProfile,
	}, at, nil
}

// DecodeNow is Decode with the codec's clock as the import time.
func (c *Codec) DecodeNow(data []byte) (*Envelope, error) {
	return Decode(data, c.now().UTC())
}

// Import replaces the whole store with env. The store stages the new content
// first, so a failure leaves the previous data in place. Records without an
// id receive a fresh one.
func (c *Codec) Import(ctx context.Context, env *Envelope) error {
	for i := range env.Workouts {
		if env.Workouts[i].ID == "" {
			env.Workouts[i].ID = uuid.NewString()
		}
	}
	for i := range env.Clients {
		if env.Clients[i].ID == "" {
			env.Clients[i].ID = uuid.NewString()
		}
	}
	if err := c.store.ReplaceAll(ctx, env.Dataset()); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	log.WithFields(log.Fields{
		"workouts":     len(env.Workouts),
		"clients":      len(env.Clients),
		"coachProfile": env.CoachProfile != nil,
	}).Info("backup imported")
	return nil
}

func (c *Codec) Stats(ctx context.Context) (*Stats, error) {
	workouts, err := c.store.Workouts().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := c.store.Clients().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	last, err := c.store.LastBackupAt(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{WorkoutsCount: len(workouts), ClientsCount: len(clients), LastBackup: last}, nil
}
