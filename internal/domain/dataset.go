package domain

// Dataset is the full content of the store: every table at once.
type Dataset struct {
	Workouts     []Workout
	Clients      []Client
	CoachProfile *CoachProfile
}
