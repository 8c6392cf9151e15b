// Package memory provides in-memory repository implementations used in
// development mode and in tests. All stores are safe for concurrent use and
// hand out copies, never their internal records.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
	"github.com/stillpoint/clinic-ops/internal/core/ports"
)

type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[string]*domain.Booking)}
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	clone := *b
	clone.Tasks = append([]domain.Task(nil), b.Tasks...)
	return &clone
}

func (r *BookingRepository) Insert(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Update(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return domain.ErrBookingNotFound
	}
	r.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) List(_ context.Context, f ports.BookingFilter) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Booking
	for _, b := range r.bookings {
		if f.ClientEmail != "" && b.ClientEmail != f.ClientEmail {
			continue
		}
		if f.TherapistID != "" && b.TherapistID != f.TherapistID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && b.EndsAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !b.StartsAt.Before(f.To) {
			continue
		}
		matched = append(matched, cloneBooking(b))
	}
	return matched, nil
}

func (r *BookingRepository) ListActiveForTherapist(_ context.Context, therapistID string, from, to time.Time) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Booking
	for _, b := range r.bookings {
		if b.TherapistID != therapistID || !b.Active() {
			continue
		}
		if !b.Overlaps(from, to) {
			continue
		}
		matched = append(matched, cloneBooking(b))
	}
	return matched, nil
}
