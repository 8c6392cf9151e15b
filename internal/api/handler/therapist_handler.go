package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stillpoint/clinic-ops/internal/core/ports"
	"github.com/stillpoint/clinic-ops/internal/core/service"
)

type therapistResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type slotResponse struct {
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Level     string    `json:"level"`
	Available bool      `json:"available"`
}

// TherapistHandler exposes the therapist picker and slot availability.
type TherapistHandler struct {
	therapists *service.TherapistService
	slots      ports.SlotService
}

func NewTherapistHandler(therapists *service.TherapistService, slots ports.SlotService) *TherapistHandler {
	return &TherapistHandler{therapists: therapists, slots: slots}
}

// List handles GET /v1/therapists – only active therapists are offered.
//
// @Summary      List bookable therapists
// @Tags         therapists
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  therapistResponse
// @Router       /v1/therapists [get]
func (h *TherapistHandler) List(c echo.Context) error {
	therapists, err := h.therapists.List(c.Request().Context(), true)
	if err != nil {
		return err
	}

	out := make([]therapistResponse, 0, len(therapists))
	for _, t := range therapists {
		out = append(out, therapistResponse{ID: t.ID, Name: t.Name, Active: t.Active})
	}
	return c.JSON(http.StatusOK, out)
}

// Slots handles GET /v1/therapists/:id/slots?date=YYYY-MM-DD.
//
// @Summary      Slot availability for a therapist on a date
// @Tags         therapists
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Therapist id"
// @Param        date  query     string  true  "Date (YYYY-MM-DD)"
// @Success      200   {array}   slotResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/therapists/{id}/slots [get]
func (h *TherapistHandler) Slots(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	therapistID := c.Param("id")
	if _, err := h.therapists.Get(c.Request().Context(), therapistID); err != nil {
		return err
	}

	slots, err := h.slots.AvailableSlots(c.Request().Context(), therapistID, date)
	if err != nil {
		return err
	}

	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{
			StartsAt:  s.StartsAt,
			EndsAt:    s.EndsAt,
			Level:     string(s.Level),
			Available: s.Available,
		})
	}
	return c.JSON(http.StatusOK, out)
}

