package domain

import (
	"time"
)

// Client is a person the coach writes plans for.
// Deleting a Client never touches the Workouts that mention it.
type Client struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name" validate:"required"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
