package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stillpoint/clinic-ops/internal/api/middleware"
	"github.com/stillpoint/clinic-ops/internal/core/domain"
	"github.com/stillpoint/clinic-ops/internal/core/ports"
)

func clientSession() *domain.Session {
	return &domain.Session{Subject: "u-client", Email: "client@clinic.test", Role: domain.RoleClient}
}

func TestBookingHandler_Create_Success(t *testing.T) {
	starts := time.Date(2026, 9, 14, 14, 0, 0, 0, time.UTC)
	ends := starts.Add(45 * time.Minute)

	svc := &stubBookingService{
		createFn: func(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
			if in.ClientID != "u-client" || in.ClientEmail != "client@clinic.test" {
				t.Fatalf("client identity must come from the session, got %+v", in)
			}
			if in.TherapistID != "t1" || !in.StartsAt.Equal(starts) {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Booking{
				ID:          "b1",
				ClientID:    in.ClientID,
				ClientEmail: in.ClientEmail,
				TherapistID: in.TherapistID,
				StartsAt:    in.StartsAt,
				EndsAt:      in.EndsAt,
				Status:      domain.StatusPending,
			}, nil
		},
	}
	h := NewBookingHandler(svc)

	body := `{"therapist_id":"t1","starts_at":"2026-09-14T14:00:00Z","ends_at":"2026-09-14T14:45:00Z"}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/bookings", body)
	middleware.SetSession(c, clientSession())

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp bookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "b1" || resp.Status != "pending" || !resp.EndsAt.Equal(ends) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBookingHandler_Create_NonClientForbidden(t *testing.T) {
	svc := &stubBookingService{
		createFn: func(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewBookingHandler(svc)

	for _, sess := range []*domain.Session{
		{Subject: "u1", Role: domain.RoleAdmin},
		{Subject: "u2", Role: domain.RoleTherapist, TherapistID: "t1"},
	} {
		body := `{"therapist_id":"t1","starts_at":"2026-09-14T14:00:00Z","ends_at":"2026-09-14T14:45:00Z"}`
		c, _ := newTestContext(t, http.MethodPost, "/v1/bookings", body)
		middleware.SetSession(c, sess)

		err := h.Create(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusForbidden {
			t.Fatalf("role %s: expected 403 HTTPError, got %v", sess.Role, err)
		}
	}
}

func TestBookingHandler_Create_NoSession(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{})

	c, _ := newTestContext(t, http.MethodPost, "/v1/bookings", `{}`)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestBookingHandler_Create_MissingFields(t *testing.T) {
	svc := &stubBookingService{
		createFn: func(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewBookingHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/v1/bookings", `{"therapist_id":"t1"}`)
	middleware.SetSession(c, clientSession())

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestBookingHandler_List_ScopedToActor(t *testing.T) {
	svc := &stubBookingService{
		listForFn: func(ctx context.Context, actor ports.Actor) ([]*domain.Booking, error) {
			if actor.Role != domain.RoleClient || actor.Email != "client@clinic.test" {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			return []*domain.Booking{{ID: "b1"}}, nil
		},
	}
	h := NewBookingHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/v1/bookings", "")
	middleware.SetSession(c, clientSession())

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp bookingListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 1 || len(resp.Bookings) != 1 {
		t.Fatalf("unexpected listing: %+v", resp)
	}
}

func TestBookingHandler_Transition_Success(t *testing.T) {
	svc := &stubBookingService{
		transitionFn: func(ctx context.Context, bookingID string, to domain.BookingStatus, actor ports.Actor) (*domain.Booking, error) {
			if bookingID != "b1" || to != domain.StatusConfirmed {
				t.Fatalf("unexpected args: %s %s", bookingID, to)
			}
			return &domain.Booking{ID: bookingID, Status: to}, nil
		},
	}
	h := NewBookingHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/v1/bookings/b1/transition", `{"to":"confirmed"}`)
	c.SetParamNames("id")
	c.SetParamValues("b1")
	middleware.SetSession(c, &domain.Session{Subject: "u2", Role: domain.RoleTherapist, TherapistID: "t1"})

	if err := h.Transition(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBookingHandler_Transition_UnknownStatus(t *testing.T) {
	svc := &stubBookingService{
		transitionFn: func(ctx context.Context, bookingID string, to domain.BookingStatus, actor ports.Actor) (*domain.Booking, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewBookingHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/v1/bookings/b1/transition", `{"to":"archived"}`)
	c.SetParamNames("id")
	c.SetParamValues("b1")
	middleware.SetSession(c, &domain.Session{Subject: "u1", Role: domain.RoleAdmin})

	err := h.Transition(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestBookingHandler_Transition_ServiceErrorPassesThrough(t *testing.T) {
	svc := &stubBookingService{
		transitionFn: func(ctx context.Context, bookingID string, to domain.BookingStatus, actor ports.Actor) (*domain.Booking, error) {
			return nil, domain.ErrInvalidTransition
		},
	}
	h := NewBookingHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/v1/bookings/b1/transition", `{"to":"done"}`)
	c.SetParamNames("id")
	c.SetParamValues("b1")
	middleware.SetSession(c, &domain.Session{Subject: "u1", Role: domain.RoleAdmin})

	if err := h.Transition(c); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition to pass to the error handler, got %v", err)
	}
}

func TestBookingHandler_UpdateTasks(t *testing.T) {
	svc := &stubBookingService{
		updateTasksFn: func(ctx context.Context, bookingID string, actor ports.Actor, tasks []domain.Task) (*domain.Booking, error) {
			if len(tasks) != 2 || tasks[0].Title != "breathing exercise" {
				t.Fatalf("unexpected tasks: %+v", tasks)
			}
			return &domain.Booking{ID: bookingID, Tasks: tasks}, nil
		},
	}
	h := NewBookingHandler(svc)

	body := `{"tasks":[{"title":"breathing exercise"},{"title":"journal entry","done":true}]}`
	c, rec := newTestContext(t, http.MethodPut, "/v1/bookings/b1/tasks", body)
	c.SetParamNames("id")
	c.SetParamValues("b1")
	middleware.SetSession(c, &domain.Session{Subject: "u2", Role: domain.RoleTherapist, TherapistID: "t1"})

	if err := h.UpdateTasks(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBookingHandler_UpdateNote(t *testing.T) {
	svc := &stubBookingService{
		updateNoteFn: func(ctx context.Context, bookingID string, actor ports.Actor, note string) (*domain.Booking, error) {
			if note != "bring previous assessment" {
				t.Fatalf("unexpected note: %q", note)
			}
			return &domain.Booking{ID: bookingID, NoteToClient: note}, nil
		},
	}
	h := NewBookingHandler(svc)

	c, rec := newTestContext(t, http.MethodPut, "/v1/bookings/b1/note", `{"note":"bring previous assessment"}`)
	c.SetParamNames("id")
	c.SetParamValues("b1")
	middleware.SetSession(c, &domain.Session{Subject: "u2", Role: domain.RoleTherapist, TherapistID: "t1"})

	if err := h.UpdateNote(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
