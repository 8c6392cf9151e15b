package handler

import (
	"time"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

type createBookingRequest struct {
	TherapistID string    `json:"therapist_id" validate:"required"`
	StartsAt    time.Time `json:"starts_at"    validate:"required"`
	EndsAt      time.Time `json:"ends_at"      validate:"required"`
}

type transitionRequest struct {
	To string `json:"to" validate:"required,oneof=confirmed done canceled"`
}

type taskRequest struct {
	ID    string `json:"id"`
	Title string `json:"title" validate:"required"`
	Done  bool   `json:"done"`
}

type updateTasksRequest struct {
	Tasks []taskRequest `json:"tasks" validate:"dive"`
}

type updateNoteRequest struct {
	Note string `json:"note"`
}

type taskResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type bookingResponse struct {
	ID                string         `json:"id"`
	ClientID          string         `json:"client_id"`
	ClientEmail       string         `json:"client_email"`
	TherapistID       string         `json:"therapist_id"`
	StartsAt          time.Time      `json:"starts_at"`
	EndsAt            time.Time      `json:"ends_at"`
	Status            string         `json:"status"`
	Tasks             []taskResponse `json:"tasks"`
	NoteToClient      string         `json:"note_to_client"`
	ClientPrivateNote string         `json:"client_private_note,omitempty"`
}

type bookingListResponse struct {
	Bookings []bookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	tasks := make([]taskResponse, 0, len(b.Tasks))
	for _, task := range b.Tasks {
		tasks = append(tasks, taskResponse{ID: task.ID, Title: task.Title, Done: task.Done})
	}
	return bookingResponse{
		ID:                b.ID,
		ClientID:          b.ClientID,
		ClientEmail:       b.ClientEmail,
		TherapistID:       b.TherapistID,
		StartsAt:          b.StartsAt.UTC(),
		EndsAt:            b.EndsAt.UTC(),
		Status:            string(b.Status),
		Tasks:             tasks,
		NoteToClient:      b.NoteToClient,
		ClientPrivateNote: b.ClientPrivateNote,
	}
}

func toBookingListResponse(bookings []*domain.Booking) bookingListResponse {
	out := bookingListResponse{Bookings: make([]bookingResponse, 0, len(bookings))}
	for _, b := range bookings {
		out.Bookings = append(out.Bookings, toBookingResponse(b))
	}
	out.Total = len(out.Bookings)
	return out
}
