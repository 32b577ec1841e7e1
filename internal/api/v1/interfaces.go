package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/handoff-sh/handoff/internal/domain"
)

// DataStore is the storage surface the API handlers depend on. Both the
// Postgres store and the in-memory demo store satisfy it.
type DataStore interface {
	Agents() domain.AgentRepository
	Decisions() domain.DecisionRepository
}

// EscalationRouter runs one routing pass for an escalation.
type EscalationRouter interface {
	Route(ctx context.Context, escalationID uuid.UUID, in domain.EscalationInput) (*domain.RoutingDecision, error)
}

// QueueReader exposes the waiting-escalation backlog.
type QueueReader interface {
	Snapshot(ctx context.Context) ([]domain.QueuedEscalation, error)
	Len(ctx context.Context) (int, error)
}
