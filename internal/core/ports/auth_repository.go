package ports

import (
	"context"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

// UserRepository defines the interface for user credential persistence.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// RevocationList records session token ids that must no longer be accepted.
// Entries expire on their own once the token itself would have expired.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttlSeconds int64) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
