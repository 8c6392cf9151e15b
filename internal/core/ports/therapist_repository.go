package ports

import (
	"context"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

// TherapistRepository persists therapist records.
type TherapistRepository interface {
	Create(ctx context.Context, t *domain.Therapist) (*domain.Therapist, error)
	FindByID(ctx context.Context, id string) (*domain.Therapist, error)
	List(ctx context.Context, onlyActive bool) ([]*domain.Therapist, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.Therapist, error)
}
