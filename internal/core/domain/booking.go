package domain

import (
	"errors"
	"time"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusDone      BookingStatus = "done"
	StatusCanceled  BookingStatus = "canceled"
)

// validTransitions defines the allowed state machine transitions.
// done and canceled are terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCanceled},
	StatusConfirmed: {StatusDone, StatusCanceled},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrUnknownStatus = errors.New("unknown booking status")
var ErrBookingNotFound = errors.New("booking not found")
var ErrSlotUnavailable = errors.New("slot unavailable")
var ErrInvalidSlot = errors.New("invalid slot window")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseBookingStatus converts a raw value into a BookingStatus.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusDone, StatusCanceled:
		return BookingStatus(s), nil
	}
	return "", ErrUnknownStatus
}

// Task is a single to-do item a therapist attaches to a booking.
type Task struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title" bson:"title"`
	Done  bool   `json:"done" bson:"done"`
}

// Booking is the core aggregate root: a scheduled session between a client
// and a therapist.
type Booking struct {
	ID                string        `json:"id" bson:"_id,omitempty"`
	ClientID          string        `json:"client_id" bson:"client_id"`
	ClientEmail       string        `json:"client_email" bson:"client_email"`
	TherapistID       string        `json:"therapist_id" bson:"therapist_id"`
	StartsAt          time.Time     `json:"starts_at" bson:"starts_at"`
	EndsAt            time.Time     `json:"ends_at" bson:"ends_at"`
	Status            BookingStatus `json:"status" bson:"status"`
	Tasks             []Task        `json:"tasks" bson:"tasks"`
	NoteToClient      string        `json:"note_to_client" bson:"note_to_client"`
	ClientPrivateNote string        `json:"client_private_note,omitempty" bson:"client_private_note,omitempty"`
	CreatedAt         time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" bson:"updated_at"`
}

// Active reports whether the booking still occupies its slot.
func (b *Booking) Active() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Overlaps reports whether the half-open interval [StartsAt, EndsAt) of b
// intersects [startsAt, endsAt).
func (b *Booking) Overlaps(startsAt, endsAt time.Time) bool {
	return b.StartsAt.Before(endsAt) && startsAt.Before(b.EndsAt)
}
