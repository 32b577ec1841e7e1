package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/handoff-sh/handoff/internal/domain"
)

type DecisionRepo struct {
	pool *pgxpool.Pool
}

func NewDecisionRepo(pool *pgxpool.Pool) *DecisionRepo {
	return &DecisionRepo{pool: pool}
}

// Record appends a routing decision to the log. Decisions are never updated
// or deleted.
func (r *DecisionRepo) Record(ctx context.Context, d *domain.RoutingDecision) error {
	alternatives, err := json.Marshal(d.Alternatives)
	if err != nil {
		return fmt.Errorf("decisionRepo.Record: marshal alternatives: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO routing_decisions (id, escalation_id, outcome, agent_id, agent_name,
		     strategy, match_score, confidence, alternatives,
		     estimated_resolution_minutes, queue_position, estimated_wait_minutes,
		     reasoning, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		d.ID, d.EscalationID, d.Outcome, d.AgentID, d.AgentName,
		d.Strategy, d.MatchScore, d.Confidence, alternatives,
		d.EstimatedResolutionMinutes, d.QueuePosition, d.EstimatedWaitMinutes,
		d.Reasoning, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("decisionRepo.Record: %w", err)
	}
	return nil
}

func (r *DecisionRepo) ListRecent(ctx context.Context, limit int) ([]*domain.RoutingDecision, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, escalation_id, outcome, agent_id, agent_name,
		        strategy, match_score, confidence, alternatives,
		        estimated_resolution_minutes, queue_position, estimated_wait_minutes,
		        reasoning, created_at
		 FROM routing_decisions
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("decisionRepo.ListRecent: %w", err)
	}
	defer rows.Close()

	var decisions []*domain.RoutingDecision
	for rows.Next() {
		var d domain.RoutingDecision
		var alternatives []byte

		if err := rows.Scan(
			&d.ID, &d.EscalationID, &d.Outcome, &d.AgentID, &d.AgentName,
			&d.Strategy, &d.MatchScore, &d.Confidence, &alternatives,
			&d.EstimatedResolutionMinutes, &d.QueuePosition, &d.EstimatedWaitMinutes,
			&d.Reasoning, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("decisionRepo.ListRecent: scan: %w", err)
		}
		if err := json.Unmarshal(alternatives, &d.Alternatives); err != nil {
			return nil, fmt.Errorf("decisionRepo.ListRecent: unmarshal alternatives: %w", err)
		}
		decisions = append(decisions, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("decisionRepo.ListRecent: rows: %w", err)
	}

	return decisions, nil
}

func (r *DecisionRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM routing_decisions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("decisionRepo.Count: %w", err)
	}
	return count, nil
}
