package routing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/handoff-sh/handoff/internal/domain"
)

// mockAgentRepo implements domain.AgentRepository with settable functions.
type mockAgentRepo struct {
	createFn        func(ctx context.Context, a *domain.HumanAgent) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.HumanAgent, error)
	listFn          func(ctx context.Context) ([]*domain.HumanAgent, error)
	listAvailableFn func(ctx context.Context) ([]*domain.HumanAgent, error)
	claimFn         func(ctx context.Context, id uuid.UUID, difficult bool) (*domain.HumanAgent, error)
	releaseFn       func(ctx context.Context, id uuid.UUID) (*domain.HumanAgent, error)
	setStatusFn     func(ctx context.Context, id uuid.UUID, status domain.AgentStatus) error
}

func (m *mockAgentRepo) Create(ctx context.Context, a *domain.HumanAgent) error {
	return m.createFn(ctx, a)
}

func (m *mockAgentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.HumanAgent, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockAgentRepo) List(ctx context.Context) ([]*domain.HumanAgent, error) {
	return m.listFn(ctx)
}

func (m *mockAgentRepo) ListAvailable(ctx context.Context) ([]*domain.HumanAgent, error) {
	return m.listAvailableFn(ctx)
}

func (m *mockAgentRepo) Claim(ctx context.Context, id uuid.UUID, difficult bool) (*domain.HumanAgent, error) {
	return m.claimFn(ctx, id, difficult)
}

func (m *mockAgentRepo) Release(ctx context.Context, id uuid.UUID) (*domain.HumanAgent, error) {
	return m.releaseFn(ctx, id)
}

func (m *mockAgentRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.AgentStatus) error {
	return m.setStatusFn(ctx, id, status)
}

// mockDecisionRepo records decisions in memory.
type mockDecisionRepo struct {
	recorded []*domain.RoutingDecision
	recordFn func(ctx context.Context, d *domain.RoutingDecision) error
}

func (m *mockDecisionRepo) Record(ctx context.Context, d *domain.RoutingDecision) error {
	if m.recordFn != nil {
		return m.recordFn(ctx, d)
	}
	m.recorded = append(m.recorded, d)
	return nil
}

func (m *mockDecisionRepo) ListRecent(_ context.Context, _ int) ([]*domain.RoutingDecision, error) {
	return m.recorded, nil
}

func (m *mockDecisionRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.recorded)), nil
}

// mockQueue counts entries and returns positions.
type mockQueue struct {
	entries   []domain.QueuedEscalation
	enqueueFn func(ctx context.Context, e domain.QueuedEscalation) (int, error)
}

func (m *mockQueue) Enqueue(ctx context.Context, e domain.QueuedEscalation) (int, error) {
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, e)
	}
	m.entries = append(m.entries, e)
	return len(m.entries), nil
}

// mockCompletion is a canned LLM completion client.
type mockCompletion struct {
	completeFn func(ctx context.Context, system, user string) (string, error)
}

func (m *mockCompletion) Complete(ctx context.Context, system, user string) (string, error) {
	return m.completeFn(ctx, system, user)
}

// testAgent builds an available agent with sensible defaults. Override fields
// via the mutate callback.
func testAgent(name string, mutate func(*domain.HumanAgent)) *domain.HumanAgent {
	a := &domain.HumanAgent{
		ID:                   uuid.New(),
		Name:                 name,
		Email:                name + "@example.com",
		Skills:               []string{"general"},
		SkillLevel:           domain.SkillLevelIntermediate,
		Languages:            []string{"english"},
		MaxConcurrent:        3,
		Status:               domain.AgentStatusAvailable,
		FrustrationTolerance: domain.ToleranceMedium,
		CustomerSatisfaction: 4.0,
		EscalationRate:       0.1,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	if mutate != nil {
		mutate(a)
	}
	return a
}
