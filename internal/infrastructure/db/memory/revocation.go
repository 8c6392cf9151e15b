package memory

import (
	"context"
	"sync"
	"time"
)

// RevocationList keeps revoked token ids in memory with their expiry.
type RevocationList struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{revoked: make(map[string]time.Time)}
}

func (r *RevocationList) Revoke(_ context.Context, tokenID string, ttlSeconds int64) error {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	// Prune entries whose token has expired on its own; they can no longer
	// be presented, so keeping them only grows the map.
	for id, until := range r.revoked {
		if !now.Before(until) {
			delete(r.revoked, id)
		}
	}
	r.revoked[tokenID] = now.Add(time.Duration(ttlSeconds) * time.Second)
	return nil
}

func (r *RevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.revoked[tokenID]
	if ok && !time.Now().Before(until) {
		delete(r.revoked, tokenID)
		return false, nil
	}
	return ok, nil
}
