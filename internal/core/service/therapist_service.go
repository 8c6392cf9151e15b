package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
	"github.com/stillpoint/clinic-ops/internal/core/ports"
)

// TherapistService backs the therapist picker and the admin activation panel.
type TherapistService struct {
	repo ports.TherapistRepository
	log  zerolog.Logger
}

func NewTherapistService(repo ports.TherapistRepository, log zerolog.Logger) *TherapistService {
	return &TherapistService{repo: repo, log: log}
}

func (s *TherapistService) Get(ctx context.Context, id string) (*domain.Therapist, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TherapistService) List(ctx context.Context, onlyActive bool) ([]*domain.Therapist, error) {
	return s.repo.List(ctx, onlyActive)
}

// SetActive flips whether a therapist accepts bookings. Admin-only at the
// HTTP layer; the flag itself is the stored truth, there is no separate
// allow or deny list to reconcile.
func (s *TherapistService) SetActive(ctx context.Context, id string, active bool) (*domain.Therapist, error) {
	t, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("therapist_id", id).Bool("active", active).Msg("therapist activation changed")
	return t, nil
}
