package domain

import (
	"errors"
	"time"
)

var (
	ErrTherapistNotFound = errors.New("therapist not found")
	ErrTherapistInactive = errors.New("therapist not accepting bookings")
)

// Therapist is a bookable practitioner. Only active therapists appear in the
// booking flow; activation is an explicit admin action stored on the record,
// never derived from a separate allow/deny list.
type Therapist struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
