// Package planner holds the structural edits over a Workout's
// Week -> Day -> Exercise tree. Edits work on an in-memory value;
// persisting it is a separate, explicit step (see Session).
package planner

import (
	"alcyxob/fitplan/internal/domain"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CopySuffix marks the client name of a duplicated workout.
const CopySuffix = " (Copy)"

var ErrNodeNotFound = errors.New("plan node not found")

// IDFunc produces a fresh unique id.
type IDFunc func() string

// Editor performs the edits that need new ids.
type Editor struct {
	newID IDFunc
}

// NewEditor returns an Editor drawing ids from newID, or uuid v4 when nil.
func NewEditor(newID IDFunc) *Editor {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Editor{newID: newID}
}

// AddWeek appends week len+1 seeded with an empty "Day 1".
func (e *Editor) AddWeek(w *domain.Workout) *domain.Week {
	w.Weeks = append(w.Weeks, domain.Week{
		ID:     e.newID(),
		Number: len(w.Weeks) + 1,
		Days: []domain.Day{
			{ID: e.newID(), Name: dayName(1), Exercises: []domain.Exercise{}},
		},
	})
	return &w.Weeks[len(w.Weeks)-1]
}

// AddDay appends "Day {len+1}". Names of existing days are never touched.
func (e *Editor) AddDay(week *domain.Week) *domain.Day {
	week.Days = append(week.Days, domain.Day{
		ID:        e.newID(),
		Name:      dayName(len(week.Days) + 1),
		Exercises: []domain.Exercise{},
	})
	return &week.Days[len(week.Days)-1]
}

// AddExercise appends an empty exercise whose order is the current length.
func (e *Editor) AddExercise(day *domain.Day) *domain.Exercise {
	day.Exercises = append(day.Exercises, domain.Exercise{
		ID:    e.newID(),
		Order: len(day.Exercises),
	})
	return &day.Exercises[len(day.Exercises)-1]
}

// Duplicate deep-copies w with a new id at every level. Timestamps and
// version are cleared so the store treats it as a brand new record.
func (e *Editor) Duplicate(w domain.Workout) domain.Workout {
	out := w.Clone()
	out.ID = e.newID()
	out.ClientName = w.ClientName + CopySuffix
	out.CreatedAt, out.UpdatedAt = time.Time{}, time.Time{}
	out.Version = 0
	for i := range out.Weeks {
		week := &out.Weeks[i]
		week.ID = e.newID()
		for j := range week.Days {
			day := &week.Days[j]
			day.ID = e.newID()
			for k := range day.Exercises {
				day.Exercises[k].ID = e.newID()
			}
		}
	}
	return out
}

// AssignMissingIDs gives every node without an id a fresh one.
func (e *Editor) AssignMissingIDs(w *domain.Workout) {
	for i := range w.Weeks {
		week := &w.Weeks[i]
		if week.ID == "" {
			week.ID = e.newID()
		}
		for j := range week.Days {
			day := &week.Days[j]
			if day.ID == "" {
				day.ID = e.newID()
			}
			for k := range day.Exercises {
				if day.Exercises[k].ID == "" {
					day.Exercises[k].ID = e.newID()
				}
			}
		}
	}
}

// RemoveWeek drops the week and renumbers the remaining ones 1..N.
func RemoveWeek(w *domain.Workout, weekID string) error {
	idx := indexOf(len(w.Weeks), func(i int) bool { return w.Weeks[i].ID == weekID })
	if idx < 0 {
		return fmt.Errorf("week %s: %w", weekID, ErrNodeNotFound)
	}
	w.Weeks = append(w.Weeks[:idx], w.Weeks[idx+1:]...)
	RenumberWeeks(w)
	return nil
}

// RenumberWeeks rewrites week numbers to match slice position.
func RenumberWeeks(w *domain.Workout) {
	for i := range w.Weeks {
		w.Weeks[i].Number = i + 1
	}
}

// RemoveDay drops the day without renaming its siblings.
func RemoveDay(week *domain.Week, dayID string) error {
	idx := indexOf(len(week.Days), func(i int) bool { return week.Days[i].ID == dayID })
	if idx < 0 {
		return fmt.Errorf("day %s: %w", dayID, ErrNodeNotFound)
	}
	week.Days = append(week.Days[:idx], week.Days[idx+1:]...)
	return nil
}

func RemoveExercise(day *domain.Day, exerciseID string) error {
	idx := indexOf(len(day.Exercises), func(i int) bool { return day.Exercises[i].ID == exerciseID })
	if idx < 0 {
		return fmt.Errorf("exercise %s: %w", exerciseID, ErrNodeNotFound)
	}
	day.Exercises = append(day.Exercises[:idx], day.Exercises[idx+1:]...)
	return nil
}

func FindWeek(w *domain.Workout, weekID string) (*domain.Week, error) {
	for i := range w.Weeks {
		if w.Weeks[i].ID == weekID {
			return &w.Weeks[i], nil
		}
	}
	return nil, fmt.Errorf("week %s: %w", weekID, ErrNodeNotFound)
}

func FindDay(week *domain.Week, dayID string) (*domain.Day, error) {
	for i := range week.Days {
		if week.Days[i].ID == dayID {
			return &week.Days[i], nil
		}
	}
	return nil, fmt.Errorf("day %s: %w", dayID, ErrNodeNotFound)
}

func FindExercise(day *domain.Day, exerciseID string) (*domain.Exercise, error) {
	for i := range day.Exercises {
		if day.Exercises[i].ID == exerciseID {
			return &day.Exercises[i], nil
		}
	}
	return nil, fmt.Errorf("exercise %s: %w", exerciseID, ErrNodeNotFound)
}

func dayName(n int) string {
	return fmt.Sprintf("Day %d", n)
}

func indexOf(n int, match func(int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return -1
}
