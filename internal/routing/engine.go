package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/handoff-sh/handoff/internal/domain"
)

// WaitQueue holds escalations no agent could take. Enqueue returns the
// 1-based position of the entry in the queue.
type WaitQueue interface {
	Enqueue(ctx context.Context, e domain.QueuedEscalation) (int, error)
}

// EventPublisher fans a committed decision out to live subscribers.
// Publishing is best-effort; failures are logged, never propagated.
type EventPublisher interface {
	PublishDecision(ctx context.Context, d *domain.RoutingDecision) error
}

// Engine runs the single-pass routing pipeline for one escalation:
// analyze, filter, score, guard-check, then commit or queue. Each call is a
// fresh pass over current agent state; there are no retries or backoff.
type Engine struct {
	agents    domain.AgentRepository
	decisions domain.DecisionRepository
	queue     WaitQueue
	events    EventPublisher
	strategy  RoutingStrategy
	analyzer  *Analyzer
	policy    Policy
	now       func() time.Time
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithEventPublisher attaches a decision event publisher.
func WithEventPublisher(p EventPublisher) EngineOption {
	return func(e *Engine) { e.events = p }
}

// WithStrategy replaces the default heuristic routing strategy.
func WithStrategy(s RoutingStrategy) EngineOption {
	return func(e *Engine) { e.strategy = s }
}

// WithClock replaces the engine clock, for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(agents domain.AgentRepository, decisions domain.DecisionRepository, queue WaitQueue, policy Policy, opts ...EngineOption) *Engine {
	e := &Engine{
		agents:    agents,
		decisions: decisions,
		queue:     queue,
		analyzer:  NewAnalyzer(policy),
		policy:    policy,
		now:       time.Now,
	}
	e.strategy = NewHeuristicStrategy(policy)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Route runs one pass of the pipeline and returns the recorded decision.
// A queued outcome is a valid decision, not an error; only directory
// failures surface, wrapped in domain.ErrRoutingUnavailable.
func (e *Engine) Route(ctx context.Context, escalationID uuid.UUID, in domain.EscalationInput) (*domain.RoutingDecision, error) {
	req := e.analyzer.Analyze(in)

	candidates, err := e.listCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("routing.Engine.Route: %w: %w", domain.ErrRoutingUnavailable, err)
	}

	if len(candidates) == 0 {
		return e.queueEscalation(ctx, escalationID, req)
	}

	selection, err := e.strategy.Select(ctx, req, candidates)
	if err != nil {
		return nil, fmt.Errorf("routing.Engine.Route: select: %w", err)
	}

	claimed, selection := e.claimWithFallback(ctx, selection, req)
	if claimed == nil {
		// Every candidate was taken between snapshot and commit.
		return e.queueEscalation(ctx, escalationID, req)
	}

	decision := e.buildAssignment(escalationID, req, selection, claimed)
	e.record(ctx, decision)

	log.Info().
		Str("escalation_id", escalationID.String()).
		Str("agent_id", claimed.ID.String()).
		Str("strategy", string(decision.Strategy)).
		Float64("match_score", decision.MatchScore).
		Msg("escalation assigned")

	return decision, nil
}

// listCandidates narrows the directory to agents that are available, under
// capacity, and inside their shift window. An empty result is a valid
// outcome handled by the queue fallback, not an error.
func (e *Engine) listCandidates(ctx context.Context) ([]*domain.HumanAgent, error) {
	agents, err := e.agents.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	now := e.now()
	candidates := make([]*domain.HumanAgent, 0, len(agents))
	for _, agent := range agents {
		if agent.Selectable() && agent.OnShift(now) {
			candidates = append(candidates, agent)
		}
	}
	return candidates, nil
}

// claimWithFallback commits the selection through the repository's atomic
// claim. Losing the race to a concurrent router is expected; the engine
// walks down the ranking until a claim sticks or the ranking is exhausted.
func (e *Engine) claimWithFallback(ctx context.Context, selection *Selection, req domain.EscalationRequest) (*domain.HumanAgent, *Selection) {
	difficult := req.CustomerFrustration.Difficult()

	claimed, err := e.agents.Claim(ctx, selection.Agent.ID, difficult)
	if err == nil {
		return claimed, selection
	}
	if !errors.Is(err, domain.ErrConflict) {
		log.Error().Err(err).Str("agent_id", selection.Agent.ID.String()).Msg("claim failed")
		return nil, selection
	}

	for _, ra := range selection.Ranked {
		if ra.Agent.ID == selection.Agent.ID {
			continue
		}
		claimed, err = e.agents.Claim(ctx, ra.Agent.ID, difficult)
		if err == nil {
			next := *selection
			next.Agent = ra.Agent
			next.MatchScore = normalizeScore(ra.Score, maxPossibleScore(req, selection.Strategy, e.policy.Weights))
			next.Confidence = next.MatchScore / 100
			return claimed, &next
		}
		if !errors.Is(err, domain.ErrConflict) {
			log.Error().Err(err).Str("agent_id", ra.Agent.ID.String()).Msg("claim failed")
			return nil, selection
		}
	}

	return nil, selection
}

func (e *Engine) buildAssignment(escalationID uuid.UUID, req domain.EscalationRequest, selection *Selection, claimed *domain.HumanAgent) *domain.RoutingDecision {
	agentID := claimed.ID
	decision := &domain.RoutingDecision{
		ID:                         uuid.New(),
		EscalationID:               escalationID,
		Outcome:                    domain.OutcomeAssigned,
		AgentID:                    &agentID,
		AgentName:                  claimed.Name,
		Strategy:                   selection.Strategy,
		MatchScore:                 selection.MatchScore,
		Confidence:                 selection.Confidence,
		EstimatedResolutionMinutes: req.EstimatedResolutionMinutes,
		Reasoning:                  selection.Reasoning,
		CreatedAt:                  e.now(),
	}

	for _, ra := range selection.Ranked {
		if ra.Agent.ID == claimed.ID {
			continue
		}
		decision.Alternatives = append(decision.Alternatives, domain.Alternative{
			AgentID: ra.Agent.ID,
			Name:    ra.Agent.Name,
			Score:   ra.Score,
		})
		if len(decision.Alternatives) == 3 {
			break
		}
	}

	return decision
}

// queueEscalation is the fallback when nothing qualifies: the case gets a
// real queue position and a wait estimate derived from the policy's average
// handle time.
func (e *Engine) queueEscalation(ctx context.Context, escalationID uuid.UUID, req domain.EscalationRequest) (*domain.RoutingDecision, error) {
	position, err := e.queue.Enqueue(ctx, domain.QueuedEscalation{
		EscalationID:   escalationID,
		Priority:       req.Priority,
		RequiredSkills: req.RequiredSkills,
		EnqueuedAt:     e.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("routing.Engine.Route: enqueue: %w: %w", domain.ErrRoutingUnavailable, err)
	}

	decision := &domain.RoutingDecision{
		ID:                   uuid.New(),
		EscalationID:         escalationID,
		Outcome:              domain.OutcomeQueued,
		Strategy:             domain.StrategyWorkloadBalanced,
		QueuePosition:        position,
		EstimatedWaitMinutes: position * e.policy.Queue.AvgHandleMinutes,
		Reasoning:            "no agent available; queued for callback",
		CreatedAt:            e.now(),
	}
	e.record(ctx, decision)

	log.Warn().
		Str("escalation_id", escalationID.String()).
		Int("queue_position", position).
		Int("estimated_wait_minutes", decision.EstimatedWaitMinutes).
		Msg("escalation queued")

	return decision, nil
}

// record appends the decision to the log and publishes it. The assignment is
// already committed at this point, so log failures are logged and swallowed
// rather than undoing the claim.
func (e *Engine) record(ctx context.Context, d *domain.RoutingDecision) {
	if err := e.decisions.Record(ctx, d); err != nil {
		log.Error().Err(err).Str("decision_id", d.ID.String()).Msg("failed to record routing decision")
	}
	if e.events != nil {
		if err := e.events.PublishDecision(ctx, d); err != nil {
			log.Debug().Err(err).Msg("failed to publish routing decision")
		}
	}
}
