package ports

import (
	"context"
	"errors"
)

// ErrSettingNotFound is returned when a key has never been set.
var ErrSettingNotFound = errors.New("setting not found")

// SettingsStore is simple key-value persistence for clinic-wide settings.
// Values carry their meaning directly; callers never store a list whose
// semantic (enabled vs disabled) has to be guessed back later.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
