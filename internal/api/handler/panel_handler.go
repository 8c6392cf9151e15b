package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stillpoint/clinic-ops/internal/api/middleware"
	"github.com/stillpoint/clinic-ops/internal/core/policy"
	"github.com/stillpoint/clinic-ops/internal/core/ports"
	"github.com/stillpoint/clinic-ops/internal/core/service"
)

// PanelHandler renders the role-scoped panels. Every view calls Guard before
// producing content, so panel data is double-checked against the same policy
// table the gateway already applied.
type PanelHandler struct {
	table      *policy.Table
	bookings   ports.BookingService
	therapists *service.TherapistService
	settings   ports.SettingsStore
}

func NewPanelHandler(
	table *policy.Table,
	bookings ports.BookingService,
	therapists *service.TherapistService,
	settings ports.SettingsStore,
) *PanelHandler {
	return &PanelHandler{
		table:      table,
		bookings:   bookings,
		therapists: therapists,
		settings:   settings,
	}
}

type panelResponse struct {
	Panel    string              `json:"panel"`
	Email    string              `json:"email"`
	Bookings bookingListResponse `json:"bookings"`
}

// Dispatch handles GET /panel: send the session to its own panel.
func (h *PanelHandler) Dispatch(c echo.Context) error {
	if ok, err := Guard(h.table, c); !ok {
		return err
	}
	sess := middleware.SessionFrom(c)
	return c.Redirect(http.StatusFound, sess.Role.PanelRoot())
}

// Admin handles GET /panel/admin – aggregate booking view.
func (h *PanelHandler) Admin(c echo.Context) error {
	return h.panel(c, "admin")
}

// Therapist handles GET /panel/therapist – bookings assigned to the therapist.
func (h *PanelHandler) Therapist(c echo.Context) error {
	return h.panel(c, "therapist")
}

// Client handles GET /panel/client – the client's own bookings.
func (h *PanelHandler) Client(c echo.Context) error {
	return h.panel(c, "client")
}

func (h *PanelHandler) panel(c echo.Context, name string) error {
	if ok, err := Guard(h.table, c); !ok {
		return err
	}
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookings.ListFor(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, panelResponse{
		Panel:    name,
		Email:    actor.Email,
		Bookings: toBookingListResponse(bookings),
	})
}

// AdminTherapists handles GET /panel/admin/therapists – includes inactive records.
func (h *PanelHandler) AdminTherapists(c echo.Context) error {
	if ok, err := Guard(h.table, c); !ok {
		return err
	}

	therapists, err := h.therapists.List(c.Request().Context(), false)
	if err != nil {
		return err
	}

	out := make([]therapistResponse, 0, len(therapists))
	for _, t := range therapists {
		out = append(out, therapistResponse{ID: t.ID, Name: t.Name, Active: t.Active})
	}
	return c.JSON(http.StatusOK, out)
}

// AdminSetTherapistActive handles PATCH /panel/admin/therapists/:id.
func (h *PanelHandler) AdminSetTherapistActive(c echo.Context) error {
	if ok, err := Guard(h.table, c); !ok {
		return err
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	t, err := h.therapists.SetActive(c.Request().Context(), c.Param("id"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, therapistResponse{ID: t.ID, Name: t.Name, Active: t.Active})
}

// AdminGetSetting handles GET /panel/admin/settings/:key.
func (h *PanelHandler) AdminGetSetting(c echo.Context) error {
	if ok, err := Guard(h.table, c); !ok {
		return err
	}

	key := c.Param("key")
	value, err := h.settings.Get(c.Request().Context(), key)
	if err != nil {
		if errors.Is(err, ports.ErrSettingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "setting not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"key": key, "value": value})
}

// AdminPutSetting handles PUT /panel/admin/settings/:key.
func (h *PanelHandler) AdminPutSetting(c echo.Context) error {
	if ok, err := Guard(h.table, c); !ok {
		return err
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	key := c.Param("key")
	if err := h.settings.Set(c.Request().Context(), key, req.Value); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"key": key, "value": req.Value})
}
