package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stillpoint/clinic-ops/internal/core/ports"
)

// LogNotifier is the shipped ports.Notifier: it logs the email that would be
// sent instead of delivering anything. Real delivery is out of scope.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(_ context.Context, msg ports.Notification) error {
	n.log.Info().
		Str("booking_id", msg.BookingID).
		Str("recipient", msg.Recipient).
		Str("subject", msg.Subject).
		Str("status", string(msg.Status)).
		Msg("notification (mock delivery)")
	return nil
}
