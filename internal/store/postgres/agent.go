package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/handoff-sh/handoff/internal/domain"
)

type AgentRepo struct {
	pool *pgxpool.Pool
}

func NewAgentRepo(pool *pgxpool.Pool) *AgentRepo {
	return &AgentRepo{pool: pool}
}

const agentColumns = `id, name, email, skills, skill_level, languages, specializations,
	current_workload, max_concurrent, status, frustration_tolerance,
	consecutive_difficult_cases, last_frustration_assignment,
	avg_resolution_minutes, customer_satisfaction, escalation_rate,
	shift_start, shift_end, working_days, created_at, updated_at`

func (r *AgentRepo) Create(ctx context.Context, a *domain.HumanAgent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO agents (id, name, email, skills, skill_level, languages, specializations,
		     current_workload, max_concurrent, status, frustration_tolerance,
		     consecutive_difficult_cases, last_frustration_assignment,
		     avg_resolution_minutes, customer_satisfaction, escalation_rate,
		     shift_start, shift_end, working_days)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		a.ID, a.Name, a.Email, a.Skills, a.SkillLevel, a.Languages, a.Specializations,
		a.CurrentWorkload, a.MaxConcurrent, a.Status, a.FrustrationTolerance,
		a.ConsecutiveDifficultCases, a.LastFrustrationAssignment,
		a.AvgResolutionMinutes, a.CustomerSatisfaction, a.EscalationRate,
		a.ShiftStart, a.ShiftEnd, weekdaysToInts(a.WorkingDays),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("agentRepo.Create: %w", domain.ErrConflict)
		}
		return fmt.Errorf("agentRepo.Create: %w", err)
	}
	return nil
}

func (r *AgentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.HumanAgent, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)

	a, err := scanAgent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("agentRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("agentRepo.GetByID: %w", err)
	}
	return a, nil
}

func (r *AgentRepo) List(ctx context.Context) ([]*domain.HumanAgent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+agentColumns+` FROM agents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("agentRepo.List: %w", err)
	}
	defer rows.Close()

	return collectAgents(rows, "agentRepo.List")
}

func (r *AgentRepo) ListAvailable(ctx context.Context) ([]*domain.HumanAgent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+agentColumns+` FROM agents
		 WHERE status = $1 AND current_workload < max_concurrent
		 ORDER BY id`,
		domain.AgentStatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("agentRepo.ListAvailable: %w", err)
	}
	defer rows.Close()

	return collectAgents(rows, "agentRepo.ListAvailable")
}

// Claim commits an assignment in a single conditional UPDATE. The WHERE
// clause re-checks the selectability invariant, so two routers racing for
// the last slot cannot both win: the loser sees zero rows and gets
// ErrConflict.
func (r *AgentRepo) Claim(ctx context.Context, id uuid.UUID, difficult bool) (*domain.HumanAgent, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE agents SET
		     current_workload = current_workload + 1,
		     consecutive_difficult_cases = CASE WHEN $2 THEN consecutive_difficult_cases + 1 ELSE 0 END,
		     last_frustration_assignment = CASE WHEN $2 THEN now() ELSE last_frustration_assignment END,
		     updated_at = now()
		 WHERE id = $1 AND status = $3 AND current_workload < max_concurrent
		 RETURNING `+agentColumns,
		id, difficult, domain.AgentStatusAvailable)

	a, err := scanAgent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("agentRepo.Claim: agent not selectable: %w", domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("agentRepo.Claim: %w", err)
	}
	return a, nil
}

func (r *AgentRepo) Release(ctx context.Context, id uuid.UUID) (*domain.HumanAgent, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE agents SET
		     current_workload = GREATEST(current_workload - 1, 0),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+agentColumns,
		id)

	a, err := scanAgent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("agentRepo.Release: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("agentRepo.Release: %w", err)
	}
	return a, nil
}

func (r *AgentRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.AgentStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE agents SET status = $1, updated_at = now() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("agentRepo.SetStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("agentRepo.SetStatus: %w", domain.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*domain.HumanAgent, error) {
	var a domain.HumanAgent
	var workingDays []int32

	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Skills, &a.SkillLevel, &a.Languages, &a.Specializations,
		&a.CurrentWorkload, &a.MaxConcurrent, &a.Status, &a.FrustrationTolerance,
		&a.ConsecutiveDifficultCases, &a.LastFrustrationAssignment,
		&a.AvgResolutionMinutes, &a.CustomerSatisfaction, &a.EscalationRate,
		&a.ShiftStart, &a.ShiftEnd, &workingDays, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.WorkingDays = intsToWeekdays(workingDays)
	return &a, nil
}

func collectAgents(rows pgx.Rows, caller string) ([]*domain.HumanAgent, error) {
	var agents []*domain.HumanAgent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}
	return agents, nil
}

func weekdaysToInts(days []time.Weekday) []int32 {
	out := make([]int32, 0, len(days))
	for _, d := range days {
		out = append(out, int32(d))
	}
	return out
}

func intsToWeekdays(days []int32) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, time.Weekday(d))
	}
	return out
}
