package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stillpoint/clinic-ops/internal/api/middleware"
	"github.com/stillpoint/clinic-ops/internal/core/policy"
)

// Guard is the page-level half of the two enforcement points. It re-runs the
// same policy table the gateway middleware used, right before a panel view is
// rendered, so a misrouted or gateway-bypassing request still cannot produce
// protected content. Because both points call policy.Authorize on one shared
// table, their decisions cannot drift.
//
// It returns allowed=false when the view must not be rendered; the redirect
// has then already been written.
func Guard(table *policy.Table, c echo.Context) (allowed bool, err error) {
	decision := table.Authorize(c.Request().URL.Path, middleware.SessionFrom(c))
	if decision.Allow {
		return true, nil
	}
	return false, c.Redirect(http.StatusFound, decision.Location)
}
