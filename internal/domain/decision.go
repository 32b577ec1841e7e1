package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Strategy string

const (
	StrategySkillBased       Strategy = "skill_based"
	StrategyWorkloadBalanced Strategy = "workload_balanced"
	StrategyWellbeing        Strategy = "employee_wellbeing"
	StrategyLLM              Strategy = "llm"
)

type RoutingOutcome string

const (
	OutcomeAssigned RoutingOutcome = "assigned"
	OutcomeQueued   RoutingOutcome = "queued"
)

// Alternative is a runner-up candidate kept on the decision record.
type Alternative struct {
	AgentID uuid.UUID `json:"agent_id"`
	Name    string    `json:"name"`
	Score   float64   `json:"score"`
}

// RoutingDecision is the append-only record of one routing pass. AgentID is
// nil when the escalation was queued instead of assigned. Never mutated
// after creation.
type RoutingDecision struct {
	ID           uuid.UUID      `json:"id"`
	EscalationID uuid.UUID      `json:"escalation_id"`
	Outcome      RoutingOutcome `json:"outcome"`

	AgentID   *uuid.UUID `json:"agent_id,omitempty"`
	AgentName string     `json:"agent_name,omitempty"`

	Strategy     Strategy      `json:"strategy_used"`
	MatchScore   float64       `json:"match_score"` // normalized 0-100
	Confidence   float64       `json:"confidence"`  // 0-1
	Alternatives []Alternative `json:"alternatives,omitempty"`

	EstimatedResolutionMinutes int `json:"estimated_resolution_minutes,omitempty"`

	QueuePosition        int `json:"queue_position,omitempty"`
	EstimatedWaitMinutes int `json:"estimated_wait_minutes,omitempty"`

	Reasoning string    `json:"reasoning,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

// QueuedEscalation is an escalation waiting for a human agent to free up.
type QueuedEscalation struct {
	EscalationID   uuid.UUID `json:"escalation_id"`
	Priority       Priority  `json:"priority"`
	RequiredSkills []string  `json:"required_skills"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
}

type DecisionRepository interface {
	Record(ctx context.Context, d *RoutingDecision) error
	ListRecent(ctx context.Context, limit int) ([]*RoutingDecision, error)
	Count(ctx context.Context) (int64, error)
}
