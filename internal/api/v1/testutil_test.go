package v1_test

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"

	v1 "github.com/handoff-sh/handoff/internal/api/v1"
	"github.com/handoff-sh/handoff/internal/domain"
	"github.com/handoff-sh/handoff/internal/routing"
	"github.com/handoff-sh/handoff/internal/store/memory"
)

// testStore bundles the in-memory repositories behind the DataStore surface.
type testStore struct {
	agents    *memory.AgentRepo
	decisions *memory.DecisionRepo
}

func newTestStore() *testStore {
	return &testStore{
		agents:    memory.NewAgentRepo(),
		decisions: memory.NewDecisionRepo(),
	}
}

func (s *testStore) Agents() domain.AgentRepository       { return s.agents }
func (s *testStore) Decisions() domain.DecisionRepository { return s.decisions }

// newTestAPI wires every route against in-memory state and a real engine.
func newTestAPI(t *testing.T) (humatest.TestAPI, *testStore, *memory.WaitQueue) {
	t.Helper()

	store := newTestStore()
	queue := memory.NewWaitQueue()
	engine := routing.NewEngine(store.agents, store.decisions, queue, routing.DefaultPolicy())

	_, api := humatest.New(t)
	v1.RegisterEscalationRoutes(api, engine)
	v1.RegisterAgentRoutes(api, store)
	v1.RegisterDecisionRoutes(api, store)
	v1.RegisterQueueRoutes(api, queue)

	return api, store, queue
}

// routerFunc adapts a function to the EscalationRouter surface.
type routerFunc func(ctx context.Context, escalationID uuid.UUID, in domain.EscalationInput) (*domain.RoutingDecision, error)

func (f routerFunc) Route(ctx context.Context, escalationID uuid.UUID, in domain.EscalationInput) (*domain.RoutingDecision, error) {
	return f(ctx, escalationID, in)
}

// seedAgent onboards an available agent directly into the store.
func seedAgent(t *testing.T, store *testStore, mutate func(*domain.HumanAgent)) *domain.HumanAgent {
	t.Helper()

	a := &domain.HumanAgent{
		ID:                   uuid.New(),
		Name:                 "Test Agent",
		Email:                uuid.NewString() + "@example.com",
		Skills:               []string{"general"},
		SkillLevel:           domain.SkillLevelIntermediate,
		MaxConcurrent:        3,
		Status:               domain.AgentStatusAvailable,
		FrustrationTolerance: domain.ToleranceMedium,
		CustomerSatisfaction: 4.0,
	}
	if mutate != nil {
		mutate(a)
	}
	if err := store.agents.Create(context.Background(), a); err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	return a
}
