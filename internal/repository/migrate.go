package repository

import (
	"github.com/google/uuid"
)

// legacyDayNamespace seeds the deterministic ids of synthetic days.
var legacyDayNamespace = uuid.MustParse("6f1c2b8e-3c1d-4e5a-9b7f-2a4d8c6e0f13")

// SyntheticDayName is used for the day wrapping pre-Day exercises.
const SyntheticDayName = "Day 1"

// MigrateWorkoutDocument upgrades one raw workout document in place and reports
// whether anything changed. Weeks that still hold exercises directly are wrapped
// into a single "Day 1"; missing exercise rest and day/week notes become "".
// Running it again on its own output changes nothing.
func MigrateWorkoutDocument(doc map[string]any) bool {
	weeks, ok := doc["weeks"].([]any)
	if !ok {
		return false
	}
	changed := false
	for _, rawWeek := range weeks {
		week, ok := rawWeek.(map[string]any)
		if !ok {
			continue
		}
		if hasString(week, "exercises") && !hasString(week, "days") {
			weekID, _ := week["id"].(string)
			week["days"] = []any{
				map[string]any{
					"id":        syntheticDayID(weekID),
					"name":      SyntheticDayName,
					"exercises": week["exercises"],
					"notes":     "",
				},
			}
			delete(week, "exercises")
			if !hasString(week, "notes") {
				week["notes"] = ""
			}
			changed = true
		}

		days, ok := week["days"].([]any)
		if !ok {
			continue
		}
		for _, rawDay := range days {
			day, ok := rawDay.(map[string]any)
			if !ok {
				continue
			}
			if exercises, ok := day["exercises"].([]any); ok {
				for _, rawEx := range exercises {
					ex, ok := rawEx.(map[string]any)
					if !ok {
						continue
					}
					if !hasString(ex, "rest") {
						ex["rest"] = ""
						changed = true
					}
				}
			}
			if !hasString(day, "notes") {
				day["notes"] = ""
				changed = true
			}
		}
	}
	return changed
}

// hasString treats an absent key and an explicit null the same way.
func hasString(m map[string]any, key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

func syntheticDayID(weekID string) string {
	if weekID == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(legacyDayNamespace, []byte(weekID+"/day-1")).String()
}
