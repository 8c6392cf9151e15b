package ports

import (
	"context"
	"time"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

// BookingFilter narrows a booking listing. Zero values mean "no filter".
type BookingFilter struct {
	ClientEmail string
	TherapistID string
	Status      domain.BookingStatus
	From        time.Time
	To          time.Time
}

// BookingRepository owns booking records. Other components reference bookings
// only through the values it returns.
type BookingRepository interface {
	Insert(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	List(ctx context.Context, f BookingFilter) ([]*domain.Booking, error)
	// ListActiveForTherapist returns the therapist's pending and confirmed
	// bookings intersecting [from, to).
	ListActiveForTherapist(ctx context.Context, therapistID string, from, to time.Time) ([]*domain.Booking, error)
}
