package memory

import (
	"context"
	"sync"
	"time"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

type TherapistRepository struct {
	mu         sync.RWMutex
	therapists map[string]*domain.Therapist
}

func NewTherapistRepository() *TherapistRepository {
	return &TherapistRepository{therapists: make(map[string]*domain.Therapist)}
}

func (r *TherapistRepository) Create(_ context.Context, t *domain.Therapist) (*domain.Therapist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *t
	r.therapists[t.ID] = &clone
	out := clone
	return &out, nil
}

func (r *TherapistRepository) FindByID(_ context.Context, id string) (*domain.Therapist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.therapists[id]
	if !ok {
		return nil, domain.ErrTherapistNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *TherapistRepository) List(_ context.Context, onlyActive bool) ([]*domain.Therapist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Therapist
	for _, t := range r.therapists {
		if onlyActive && !t.Active {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *TherapistRepository) SetActive(_ context.Context, id string, active bool) (*domain.Therapist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.therapists[id]
	if !ok {
		return nil, domain.ErrTherapistNotFound
	}
	t.Active = active
	t.UpdatedAt = time.Now().UTC()
	clone := *t
	return &clone, nil
}
