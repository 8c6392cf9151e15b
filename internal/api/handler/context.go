package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stillpoint/clinic-ops/internal/api/middleware"
	"github.com/stillpoint/clinic-ops/internal/core/domain"
	"github.com/stillpoint/clinic-ops/internal/core/ports"
)

// ctxActor extracts the decoded session injected by the Session middleware
// and performs a fast-fail check before any service call:
//   - a session must be present (RequireSession or the gateway ran first);
//   - a therapist session requires a linked therapist id; a token without
//     one cannot be scoped to any booking, so it is rejected with 401.
func ctxActor(c echo.Context) (ports.Actor, error) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	if sess.Role == domain.RoleTherapist && sess.TherapistID == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing therapist identity")
	}
	return ports.Actor{
		Role:        sess.Role,
		Email:       sess.Email,
		TherapistID: sess.TherapistID,
	}, nil
}

// sessionSubject returns the subject (user id) of the current session, or "".
func sessionSubject(c echo.Context) string {
	if sess := middleware.SessionFrom(c); sess != nil {
		return sess.Subject
	}
	return ""
}
