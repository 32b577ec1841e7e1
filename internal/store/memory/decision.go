package memory

import (
	"context"
	"sync"

	"github.com/handoff-sh/handoff/internal/domain"
)

type DecisionRepo struct {
	mu        sync.RWMutex
	decisions []*domain.RoutingDecision
}

func NewDecisionRepo() *DecisionRepo {
	return &DecisionRepo{}
}

func (r *DecisionRepo) Record(_ context.Context, d *domain.RoutingDecision) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *d
	r.decisions = append(r.decisions, &copied)
	return nil
}

// ListRecent returns up to limit decisions, newest first.
func (r *DecisionRepo) ListRecent(_ context.Context, limit int) ([]*domain.RoutingDecision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.decisions) {
		limit = len(r.decisions)
	}

	out := make([]*domain.RoutingDecision, 0, limit)
	for i := len(r.decisions) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *r.decisions[i]
		out = append(out, &copied)
	}
	return out, nil
}

func (r *DecisionRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.decisions)), nil
}
