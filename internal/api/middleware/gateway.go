package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stillpoint/clinic-ops/internal/api/metrics"
	"github.com/stillpoint/clinic-ops/internal/core/policy"
)

// Gateway enforces the namespace policy before any protected handler runs.
// The decision is computed synchronously from the request path and the
// decoded session; a deny is always a redirect, never a partial render.
func Gateway(table *policy.Table) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := table.Authorize(c.Request().URL.Path, SessionFrom(c))
			if decision.Allow {
				metrics.GatewayDecisionsTotal.WithLabelValues("allow").Inc()
				return next(c)
			}
			metrics.GatewayDecisionsTotal.WithLabelValues("redirect").Inc()
			return c.Redirect(http.StatusFound, decision.Location)
		}
	}
}
