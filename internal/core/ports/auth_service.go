package ports

import (
	"context"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

// AuthService verifies credentials and issues/decodes session tokens.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	DecodeToken(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, sess *domain.Session) error
}
