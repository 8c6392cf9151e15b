package ports

import (
	"context"
	"time"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

// Actor identifies who is performing a booking operation.
type Actor struct {
	Role  domain.Role
	Email string
	// TherapistID is set when the actor is a therapist-role user.
	TherapistID string
}

// CreateBookingInput carries all data needed to create a new booking.
type CreateBookingInput struct {
	ClientID    string
	ClientEmail string
	TherapistID string
	StartsAt    time.Time
	EndsAt      time.Time
}

// BookingService is the booking lifecycle boundary. All reads are scoped by
// the actor's role inside the service, so route-level controls are not the
// only thing standing between roles and each other's data.
type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	Transition(ctx context.Context, bookingID string, to domain.BookingStatus, actor Actor) (*domain.Booking, error)
	ListFor(ctx context.Context, actor Actor) ([]*domain.Booking, error)
	Get(ctx context.Context, bookingID string, actor Actor) (*domain.Booking, error)
	UpdateTasks(ctx context.Context, bookingID string, actor Actor, tasks []domain.Task) (*domain.Booking, error)
	UpdateNote(ctx context.Context, bookingID string, actor Actor, note string) (*domain.Booking, error)
}
