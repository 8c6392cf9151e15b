package domain

import "time"

// SlotLevel is a coarse busy-ness indicator for a candidate time.
type SlotLevel string

const (
	LevelQuiet  SlotLevel = "quiet"
	LevelNormal SlotLevel = "normal"
	LevelBusy   SlotLevel = "busy"
)

// Slot is a candidate session window for a therapist on a given date.
// Slots are derived from the booking snapshot at query time and never persisted.
type Slot struct {
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Level     SlotLevel `json:"level"`
	Available bool      `json:"available"`
}
