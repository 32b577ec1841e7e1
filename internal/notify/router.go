package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/handoff-sh/handoff/internal/domain"
)

// Router is the routing surface the notifier decorates.
type Router interface {
	Route(ctx context.Context, escalationID uuid.UUID, in domain.EscalationInput) (*domain.RoutingDecision, error)
}

// RoutingNotifier wraps a Router and pushes a notification for every
// committed decision. Routing results are returned untouched; delivery
// problems are logged only.
type RoutingNotifier struct {
	inner        Router
	notifier     *Notifier
	agents       domain.AgentRepository
	opsRecipient string
}

func NewRoutingNotifier(inner Router, notifier *Notifier, agents domain.AgentRepository, opsRecipient string) *RoutingNotifier {
	return &RoutingNotifier{
		inner:        inner,
		notifier:     notifier,
		agents:       agents,
		opsRecipient: opsRecipient,
	}
}

func (r *RoutingNotifier) Route(ctx context.Context, escalationID uuid.UUID, in domain.EscalationInput) (*domain.RoutingDecision, error) {
	decision, err := r.inner.Route(ctx, escalationID, in)
	if err != nil {
		return nil, err
	}

	switch decision.Outcome {
	case domain.OutcomeAssigned:
		agent, lookupErr := r.agents.GetByID(ctx, *decision.AgentID)
		if lookupErr != nil {
			log.Warn().Err(lookupErr).Str("agent_id", decision.AgentID.String()).Msg("cannot notify assigned agent")
			break
		}
		r.notifier.AssignmentMade(ctx, agent, decision)
	case domain.OutcomeQueued:
		r.notifier.EscalationQueued(ctx, r.opsRecipient, decision)
	}

	return decision, nil
}
