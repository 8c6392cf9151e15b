package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
	"github.com/stillpoint/clinic-ops/internal/core/ports"
)

const (
	slotFirstHour = 9  // first candidate start, local clinic time
	slotLastHour  = 17 // last candidate start
	slotDuration  = 45 * time.Minute
)

// SlotService derives candidate session windows from the booking snapshot.
type SlotService struct {
	repo ports.BookingRepository
}

func NewSlotService(repo ports.BookingRepository) *SlotService {
	return &SlotService{repo: repo}
}

// AvailableSlots returns the day's candidate slots for a therapist. A slot is
// unavailable when its window overlaps any pending or confirmed booking of
// that therapist. Level reflects how much of the day is already taken:
// under a third quiet, under two thirds normal, else busy.
func (s *SlotService) AvailableSlots(ctx context.Context, therapistID string, date time.Time) ([]domain.Slot, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := s.repo.ListActiveForTherapist(ctx, therapistID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("available slots: %w", err)
	}

	slots := make([]domain.Slot, 0, slotLastHour-slotFirstHour+1)
	taken := 0
	for hour := slotFirstHour; hour <= slotLastHour; hour++ {
		startsAt := dayStart.Add(time.Duration(hour) * time.Hour)
		endsAt := startsAt.Add(slotDuration)

		available := true
		for _, b := range bookings {
			if b.Overlaps(startsAt, endsAt) {
				available = false
				taken++
				break
			}
		}

		slots = append(slots, domain.Slot{
			StartsAt:  startsAt,
			EndsAt:    endsAt,
			Available: available,
		})
	}

	level := occupancyLevel(taken, len(slots))
	for i := range slots {
		slots[i].Level = level
	}
	return slots, nil
}

func occupancyLevel(taken, total int) domain.SlotLevel {
	if total == 0 {
		return domain.LevelQuiet
	}
	ratio := float64(taken) / float64(total)
	switch {
	case ratio < 1.0/3.0:
		return domain.LevelQuiet
	case ratio < 2.0/3.0:
		return domain.LevelNormal
	default:
		return domain.LevelBusy
	}
}
