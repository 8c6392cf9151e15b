package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/stillpoint/clinic-ops/internal/core/ports"
)

// SettingsStore persists clinic-wide settings as plain Redis strings.
// Key format: setting:<key>. Values carry their semantic directly.
type SettingsStore struct {
	client *redis.Client
}

func NewSettingsStore(client *redis.Client) *SettingsStore {
	return &SettingsStore{client: client}
}

func (s *SettingsStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrSettingNotFound
		}
		return "", fmt.Errorf("get setting: %w", err)
	}
	return v, nil
}

func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

func (s *SettingsStore) key(k string) string {
	return "setting:" + k
}
