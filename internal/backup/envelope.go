// Package backup exports and imports the whole store as one JSON document.
package backup

import (
	"alcyxob/fitplan/internal/domain"
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidFormat is returned for any backup whose shape is not an
// envelope object with array workouts/clients and an object coachProfile.
var ErrInvalidFormat = errors.New("backup format invalid")

// Envelope is the portable backup document.
type Envelope struct {
	Workouts     []domain.Workout     `json:"workouts"`
	Clients      []domain.Client      `json:"clients"`
	CoachProfile *domain.CoachProfile `json:"coachProfile"`
}

// Dataset converts the envelope to the store's representation.
func (e *Envelope) Dataset() domain.Dataset {
	return domain.Dataset{
		Workouts:     e.Workouts,
		Clients:      e.Clients,
		CoachProfile: e.CoachProfile,
	}
}

// Encode pretty-prints env with two-space indentation. Missing tables are
// written as empty arrays, never null.
func Encode(env *Envelope) ([]byte, error) {
	out := *env
	if out.Workouts == nil {
		out.Workouts = []domain.Workout{}
	}
	if out.Clients == nil {
		out.Clients = []domain.Client{}
	}
	return json.MarshalIndent(out, "", "  ")
}

// Filename is the suggested name of a backup taken at t.
func Filename(t time.Time) string {
	return "backup-" + t.UTC().Format("2006-01-02") + ".json"
}
