// internal/domain/exercise.go
package domain

// Exercise is one movement prescription inside a Day.
// Sets and reps are free-form ("3x10", "8-12") so they stay strings.
type Exercise struct {
	ID       string `bson:"id" json:"id" validate:"required"`
	Name     string `bson:"name" json:"name" validate:"required"`
	Sets     string `bson:"sets" json:"sets" validate:"required"`
	Reps     string `bson:"reps" json:"reps" validate:"required"`
	Load     string `bson:"load,omitempty" json:"load,omitempty"`
	Rest     string `bson:"rest" json:"rest"`
	Notes    string `bson:"notes,omitempty" json:"notes,omitempty"`
	ImageURL string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"` // data URL or bare base64
	// Order is stamped at insertion time only. Slice position is what gets displayed.
	Order int `bson:"order" json:"order"`
}
