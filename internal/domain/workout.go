package domain

import (
	"time"
)

// WorkoutType is one of the closed set of program categories.
type WorkoutType string

const (
	WorkoutTypeStrength       WorkoutType = "Strength"
	WorkoutTypeMass           WorkoutType = "Mass"
	WorkoutTypeCutting        WorkoutType = "Cutting"
	WorkoutTypeEndurance      WorkoutType = "Endurance"
	WorkoutTypeRehabilitation WorkoutType = "Rehabilitation"
	WorkoutTypeFunctional     WorkoutType = "Functional"
)

// WorkoutTypes lists every accepted category in display order.
var WorkoutTypes = []WorkoutType{
	WorkoutTypeStrength,
	WorkoutTypeMass,
	WorkoutTypeCutting,
	WorkoutTypeEndurance,
	WorkoutTypeRehabilitation,
	WorkoutTypeFunctional,
}

// IsValidWorkoutType reports whether t belongs to WorkoutTypes.
func IsValidWorkoutType(t string) bool {
	for _, wt := range WorkoutTypes {
		if string(wt) == t {
			return true
		}
	}
	return false
}

// Day is a named training session within a Week.
type Day struct {
	ID        string     `bson:"id" json:"id" validate:"required"`
	Name      string     `bson:"name" json:"name" validate:"required"`
	Exercises []Exercise `bson:"exercises" json:"exercises" validate:"dive"`
	Notes     string     `bson:"notes" json:"notes"`
}

// Week is a numbered subdivision of a Workout. Numbers always run 1..N.
type Week struct {
	ID     string `bson:"id" json:"id" validate:"required"`
	Number int    `bson:"number" json:"number" validate:"min=1"`
	Days   []Day  `bson:"days" json:"days" validate:"dive"`
	Notes  string `bson:"notes" json:"notes"`
}

// Workout is a multi-week training plan for one client.
// It exclusively owns its Weeks, which own their Days, which own their Exercises.
type Workout struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name,omitempty" json:"name,omitempty"`
	CoachName     string    `bson:"coachName" json:"coachName" validate:"required"`
	ClientName    string    `bson:"clientName" json:"clientName" validate:"required"`
	ClientID      string    `bson:"clientId,omitempty" json:"clientId,omitempty"` // soft link, no cascade
	WorkoutType   string    `bson:"workoutType" json:"workoutType" validate:"required,workouttype"`
	Duration      int       `bson:"duration" json:"duration" validate:"min=1"` // weeks
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	DietaryAdvice string    `bson:"dietaryAdvice,omitempty" json:"dietaryAdvice,omitempty"`
	Weeks         []Week    `bson:"weeks" json:"weeks" validate:"dive"`
	Version       int64     `bson:"version" json:"version"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName falls back to "Plan for {clientName}" when no explicit name was given.
func (w *Workout) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return "Plan for " + w.ClientName
}

// ExerciseCount is the total number of exercises across every week and day.
func (w *Workout) ExerciseCount() int {
	n := 0
	for _, week := range w.Weeks {
		for _, day := range week.Days {
			n += len(day.Exercises)
		}
	}
	return n
}
