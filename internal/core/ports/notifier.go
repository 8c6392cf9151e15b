package ports

import (
	"context"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

// Notification is an email-shaped message about a booking event.
type Notification struct {
	BookingID string
	Recipient string
	Subject   string
	Body      string
	Status    domain.BookingStatus
}

// Notifier delivers a single notification. The shipped implementation only
// logs what would be sent; real delivery is out of scope.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
