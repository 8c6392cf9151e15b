package ports

import (
	"context"
	"time"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

// SlotService computes candidate session windows for a therapist on a date,
// annotated with availability and a coarse busy-ness level. Pure given the
// booking snapshot at query time.
type SlotService interface {
	AvailableSlots(ctx context.Context, therapistID string, date time.Time) ([]domain.Slot, error)
}
