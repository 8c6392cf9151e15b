package handler

import (
	"errors"

	"github.com/stillpoint/clinic-ops/internal/api/metrics"
	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

// countBookingError records why a booking operation was rejected.
func countBookingError(err error) {
	var reason string
	switch {
	case errors.Is(err, domain.ErrSlotUnavailable):
		reason = "slot_unavailable"
	case errors.Is(err, domain.ErrInvalidTransition):
		reason = "invalid_transition"
	case errors.Is(err, domain.ErrForbidden):
		reason = "forbidden"
	case errors.Is(err, domain.ErrBookingNotFound):
		reason = "not_found"
	default:
		return
	}
	metrics.BookingErrorsTotal.WithLabelValues(reason).Inc()
}
