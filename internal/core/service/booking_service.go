package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
	"github.com/stillpoint/clinic-ops/internal/core/ports"
)

// NotificationSink receives booking notifications for asynchronous delivery.
type NotificationSink interface {
	Enqueue(n ports.Notification)
}

// BookingService implements the booking lifecycle. The overlap check and
// insert for a therapist run under that therapist's lock, so two concurrent
// creates for overlapping windows cannot both succeed.
type BookingService struct {
	repo       ports.BookingRepository
	therapists ports.TherapistRepository
	notify     NotificationSink
	log        zerolog.Logger
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewBookingService(
	repo ports.BookingRepository,
	therapists ports.TherapistRepository,
	notify NotificationSink,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		repo:       repo,
		therapists: therapists,
		notify:     notify,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
		locks:      make(map[string]*sync.Mutex),
	}
}

// therapistLock returns the mutex serializing writes for one therapist.
func (s *BookingService) therapistLock(therapistID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[therapistID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[therapistID] = l
	}
	return l
}

// Create books a session with a therapist. The new booking starts pending.
func (s *BookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	if !in.StartsAt.Before(in.EndsAt) {
		return nil, domain.ErrInvalidSlot
	}

	therapist, err := s.therapists.FindByID(ctx, in.TherapistID)
	if err != nil {
		return nil, err
	}
	if !therapist.Active {
		return nil, domain.ErrTherapistInactive
	}

	lock := s.therapistLock(in.TherapistID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.repo.ListActiveForTherapist(ctx, in.TherapistID, in.StartsAt, in.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("overlap check: %w", err)
	}
	for _, b := range existing {
		if b.Overlaps(in.StartsAt, in.EndsAt) {
			return nil, domain.ErrSlotUnavailable
		}
	}

	now := s.now()
	booking := &domain.Booking{
		ID:          uuid.NewString(),
		ClientID:    in.ClientID,
		ClientEmail: in.ClientEmail,
		TherapistID: in.TherapistID,
		StartsAt:    in.StartsAt.UTC(),
		EndsAt:      in.EndsAt.UTC(),
		Status:      domain.StatusPending,
		Tasks:       []domain.Task{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, booking); err != nil {
		s.log.Error().Err(err).Str("therapist_id", in.TherapistID).Msg("failed to create booking")
		return nil, err
	}

	s.log.Info().
		Str("booking_id", booking.ID).
		Str("therapist_id", booking.TherapistID).
		Time("starts_at", booking.StartsAt).
		Msg("booking created")

	s.enqueueNotification(booking, therapist.Email, "New booking request")

	return booking, nil
}

// Transition applies a status change on behalf of an actor. The edge must be
// in the transition table, the actor must be entitled to it, and done
// additionally requires the session to be over. State is unchanged on error.
func (s *BookingService) Transition(ctx context.Context, bookingID string, to domain.BookingStatus, actor ports.Actor) (*domain.Booking, error) {
	lock, booking, err := s.lockedBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	if err := s.checkActor(booking, to, actor); err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, booking.Status, to)
	}
	if to == domain.StatusDone && s.now().Before(booking.EndsAt) {
		return nil, fmt.Errorf("%w (session not finished)", domain.ErrInvalidTransition)
	}

	booking.Status = to
	booking.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("transition: %w", err)
	}

	s.log.Info().
		Str("booking_id", booking.ID).
		Str("status", string(to)).
		Str("actor_role", string(actor.Role)).
		Msg("booking transitioned")

	s.enqueueNotification(booking, booking.ClientEmail, "Booking "+string(to))

	return scrubFor(actor, booking), nil
}

// scrubFor blanks what the actor must never see. The client's private note is
// not part of the therapist's view of a booking, on any path that returns one.
func scrubFor(actor ports.Actor, b *domain.Booking) *domain.Booking {
	if actor.Role == domain.RoleTherapist {
		b.ClientPrivateNote = ""
	}
	return b
}

// lockedBooking acquires the owning therapist's lock and re-reads the booking
// under it, so transitions serialize with creates on the same therapist.
func (s *BookingService) lockedBooking(ctx context.Context, bookingID string) (*sync.Mutex, *domain.Booking, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	lock := s.therapistLock(booking.TherapistID)
	lock.Lock()

	booking, err = s.repo.FindByID(ctx, bookingID)
	if err != nil {
		lock.Unlock()
		return nil, nil, err
	}
	return lock, booking, nil
}

// checkActor enforces who may request which transition:
// confirm/done need a therapist or admin; a client may only cancel, and only
// their own booking.
func (s *BookingService) checkActor(b *domain.Booking, to domain.BookingStatus, actor ports.Actor) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleTherapist:
		if actor.TherapistID != b.TherapistID {
			return domain.ErrForbidden
		}
		return nil
	case domain.RoleClient:
		if to != domain.StatusCanceled {
			return domain.ErrForbidden
		}
		if actor.Email != b.ClientEmail {
			return domain.ErrForbidden
		}
		return nil
	}
	return domain.ErrForbidden
}

// ListFor returns the bookings an actor may see: clients their own, therapists
// the ones assigned to them, admins everything. The scoping lives here so it
// holds even when the HTTP gateway is bypassed.
func (s *BookingService) ListFor(ctx context.Context, actor ports.Actor) ([]*domain.Booking, error) {
	var filter ports.BookingFilter
	switch actor.Role {
	case domain.RoleClient:
		filter.ClientEmail = actor.Email
	case domain.RoleTherapist:
		filter.TherapistID = actor.TherapistID
	case domain.RoleAdmin:
		// unscoped
	default:
		return nil, domain.ErrForbidden
	}

	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	for _, b := range bookings {
		scrubFor(actor, b)
	}
	return bookings, nil
}

// Get returns a single booking, applying the same per-role visibility as ListFor.
func (s *BookingService) Get(ctx context.Context, bookingID string, actor ports.Actor) (*domain.Booking, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleTherapist:
		if booking.TherapistID != actor.TherapistID {
			return nil, domain.ErrForbidden
		}
	case domain.RoleClient:
		if booking.ClientEmail != actor.Email {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, domain.ErrForbidden
	}
	return scrubFor(actor, booking), nil
}

// UpdateTasks replaces the task list a therapist keeps on a booking.
func (s *BookingService) UpdateTasks(ctx context.Context, bookingID string, actor ports.Actor, tasks []domain.Task) (*domain.Booking, error) {
	return s.updateOwned(ctx, bookingID, actor, func(b *domain.Booking) {
		for i := range tasks {
			if tasks[i].ID == "" {
				tasks[i].ID = uuid.NewString()
			}
		}
		b.Tasks = tasks
	})
}

// UpdateNote replaces the therapist's note to the client.
func (s *BookingService) UpdateNote(ctx context.Context, bookingID string, actor ports.Actor, note string) (*domain.Booking, error) {
	return s.updateOwned(ctx, bookingID, actor, func(b *domain.Booking) {
		b.NoteToClient = note
	})
}

func (s *BookingService) updateOwned(ctx context.Context, bookingID string, actor ports.Actor, apply func(*domain.Booking)) (*domain.Booking, error) {
	if actor.Role != domain.RoleTherapist && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	lock, booking, err := s.lockedBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	if actor.Role == domain.RoleTherapist && booking.TherapistID != actor.TherapistID {
		return nil, domain.ErrForbidden
	}

	apply(booking)
	booking.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return scrubFor(actor, booking), nil
}

func (s *BookingService) enqueueNotification(b *domain.Booking, recipient, subject string) {
	if s.notify == nil {
		return
	}
	s.notify.Enqueue(ports.Notification{
		BookingID: b.ID,
		Recipient: recipient,
		Subject:   subject,
		Body:      fmt.Sprintf("Session %s – %s", b.StartsAt.Format(time.RFC1123), b.EndsAt.Format("15:04")),
		Status:    b.Status,
	})
}
