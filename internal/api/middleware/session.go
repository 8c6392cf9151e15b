package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
	"github.com/stillpoint/clinic-ops/internal/core/ports"
)

// SessionCookie is the cookie the sign-in flow sets for browser clients.
const SessionCookie = "clinic_session"

// sessionKey is the echo context key the decoded session is stored under.
const sessionKey = "session"

// Session decodes the session token from the cookie or the Authorization
// header and stores it in the request context. An absent or invalid token is
// not an error here: the request continues without a session and the gateway
// (or RequireSession) decides what that means for the path being requested.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token != "" {
				if sess, err := auth.DecodeToken(c.Request().Context(), token); err == nil {
					c.Set(sessionKey, sess)
				}
			}
			return next(c)
		}
	}
}

// RequireSession guards the JSON API: a missing session is a 401, never a
// redirect.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if SessionFrom(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// SessionFrom returns the decoded session stored by Session, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionKey).(*domain.Session)
	return sess
}

// SetSession stores a session on the context. Exported for handler tests.
func SetSession(c echo.Context, sess *domain.Session) {
	c.Set(sessionKey, sess)
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
