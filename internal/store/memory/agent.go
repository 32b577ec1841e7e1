// Package memory provides in-memory implementations of the domain
// repositories, used by tests and demo mode. Claim semantics match the
// Postgres store: the selectability invariant is re-checked under the lock
// so concurrent routers cannot push an agent past capacity.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/handoff-sh/handoff/internal/domain"
)

type AgentRepo struct {
	mu     sync.RWMutex
	agents map[uuid.UUID]*domain.HumanAgent
	now    func() time.Time
}

func NewAgentRepo() *AgentRepo {
	return &AgentRepo{
		agents: make(map[uuid.UUID]*domain.HumanAgent),
		now:    time.Now,
	}
}

func (r *AgentRepo) Create(_ context.Context, a *domain.HumanAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[a.ID]; exists {
		return fmt.Errorf("memory.AgentRepo.Create: %w", domain.ErrConflict)
	}
	for _, existing := range r.agents {
		if existing.Email == a.Email {
			return fmt.Errorf("memory.AgentRepo.Create: email taken: %w", domain.ErrConflict)
		}
	}

	now := r.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.agents[a.ID] = cloneAgent(a)
	return nil
}

func (r *AgentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.HumanAgent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[id]
	if !ok {
		return nil, fmt.Errorf("memory.AgentRepo.GetByID: %w", domain.ErrNotFound)
	}
	return cloneAgent(a), nil
}

func (r *AgentRepo) List(_ context.Context) ([]*domain.HumanAgent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(func(*domain.HumanAgent) bool { return true }), nil
}

func (r *AgentRepo) ListAvailable(_ context.Context) ([]*domain.HumanAgent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(func(a *domain.HumanAgent) bool { return a.Selectable() }), nil
}

// Claim atomically re-checks the capacity invariant and commits the
// assignment. Mirrors the conditional UPDATE in the Postgres store.
func (r *AgentRepo) Claim(_ context.Context, id uuid.UUID, difficult bool) (*domain.HumanAgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[id]
	if !ok {
		return nil, fmt.Errorf("memory.AgentRepo.Claim: %w", domain.ErrNotFound)
	}
	if !a.Selectable() {
		return nil, fmt.Errorf("memory.AgentRepo.Claim: agent not selectable: %w", domain.ErrConflict)
	}

	a.CurrentWorkload++
	if difficult {
		a.ConsecutiveDifficultCases++
		now := r.now()
		a.LastFrustrationAssignment = &now
	} else {
		a.ConsecutiveDifficultCases = 0
	}
	a.UpdatedAt = r.now()

	return cloneAgent(a), nil
}

func (r *AgentRepo) Release(_ context.Context, id uuid.UUID) (*domain.HumanAgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[id]
	if !ok {
		return nil, fmt.Errorf("memory.AgentRepo.Release: %w", domain.ErrNotFound)
	}

	if a.CurrentWorkload > 0 {
		a.CurrentWorkload--
	}
	a.UpdatedAt = r.now()

	return cloneAgent(a), nil
}

func (r *AgentRepo) SetStatus(_ context.Context, id uuid.UUID, status domain.AgentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[id]
	if !ok {
		return fmt.Errorf("memory.AgentRepo.SetStatus: %w", domain.ErrNotFound)
	}
	a.Status = status
	a.UpdatedAt = r.now()
	return nil
}

// snapshot returns clones ordered by ID for deterministic listings.
func (r *AgentRepo) snapshot(keep func(*domain.HumanAgent) bool) []*domain.HumanAgent {
	out := make([]*domain.HumanAgent, 0, len(r.agents))
	for _, a := range r.agents {
		if keep(a) {
			out = append(out, cloneAgent(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func cloneAgent(a *domain.HumanAgent) *domain.HumanAgent {
	clone := *a
	clone.Skills = append([]string(nil), a.Skills...)
	clone.Languages = append([]string(nil), a.Languages...)
	clone.Specializations = append([]string(nil), a.Specializations...)
	clone.WorkingDays = append([]time.Weekday(nil), a.WorkingDays...)
	if a.LastFrustrationAssignment != nil {
		t := *a.LastFrustrationAssignment
		clone.LastFrustrationAssignment = &t
	}
	return &clone
}
