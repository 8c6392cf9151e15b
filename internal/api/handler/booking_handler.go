package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stillpoint/clinic-ops/internal/api/metrics"
	"github.com/stillpoint/clinic-ops/internal/core/domain"
	"github.com/stillpoint/clinic-ops/internal/core/ports"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /v1/bookings. Only clients book sessions; the client
// identity comes from the session, never from the payload.
//
// @Summary      Book a session
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Requested slot"
// @Success      201   {object}  bookingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleClient {
		return echo.NewHTTPError(http.StatusForbidden, "only clients create bookings")
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	sess := sessionSubject(c)
	booking, err := h.service.Create(c.Request().Context(), ports.CreateBookingInput{
		ClientID:    sess,
		ClientEmail: actor.Email,
		TherapistID: req.TherapistID,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		countBookingError(err)
		return err
	}

	metrics.BookingsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toBookingResponse(booking))
}

// List handles GET /v1/bookings – the listing is scoped to the actor's role.
//
// @Summary      List bookings visible to the caller
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  bookingListResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	bookings, err := h.service.ListFor(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingListResponse(bookings))
}

// Get handles GET /v1/bookings/:id.
//
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  bookingResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	booking, err := h.service.Get(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(booking))
}

// Transition handles POST /v1/bookings/:id/transition.
//
// @Summary      Change a booking's status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Booking id"
// @Param        body  body      transitionRequest  true  "Target status"
// @Success      200   {object}  bookingResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/bookings/{id}/transition [post]
func (h *BookingHandler) Transition(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	to, err := domain.ParseBookingStatus(req.To)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "unknown status")
	}

	booking, err := h.service.Transition(c.Request().Context(), c.Param("id"), to, actor)
	if err != nil {
		countBookingError(err)
		return err
	}

	metrics.BookingTransitionsTotal.WithLabelValues(string(to)).Inc()
	return c.JSON(http.StatusOK, toBookingResponse(booking))
}

// UpdateTasks handles PUT /v1/bookings/:id/tasks.
//
// @Summary      Replace the therapist task list on a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Booking id"
// @Param        body  body      updateTasksRequest  true  "Tasks"
// @Success      200   {object}  bookingResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/bookings/{id}/tasks [put]
func (h *BookingHandler) UpdateTasks(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateTasksRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	tasks := make([]domain.Task, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		tasks = append(tasks, domain.Task{ID: t.ID, Title: t.Title, Done: t.Done})
	}

	booking, err := h.service.UpdateTasks(c.Request().Context(), c.Param("id"), actor, tasks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(booking))
}

// UpdateNote handles PUT /v1/bookings/:id/note.
//
// @Summary      Set the therapist's note to the client
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Booking id"
// @Param        body  body      updateNoteRequest  true  "Note"
// @Success      200   {object}  bookingResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/bookings/{id}/note [put]
func (h *BookingHandler) UpdateNote(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	booking, err := h.service.UpdateNote(c.Request().Context(), c.Param("id"), actor, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(booking))
}
