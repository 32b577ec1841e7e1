package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS agents (
    id                          UUID PRIMARY KEY,
    name                        TEXT NOT NULL,
    email                       TEXT NOT NULL UNIQUE,
    skills                      TEXT[] NOT NULL DEFAULT '{}',
    skill_level                 TEXT NOT NULL DEFAULT 'junior',
    languages                   TEXT[] NOT NULL DEFAULT '{}',
    specializations             TEXT[] NOT NULL DEFAULT '{}',
    current_workload            INT NOT NULL DEFAULT 0 CHECK (current_workload >= 0),
    max_concurrent              INT NOT NULL CHECK (max_concurrent > 0),
    status                      TEXT NOT NULL DEFAULT 'offline',
    frustration_tolerance       TEXT NOT NULL DEFAULT 'medium',
    consecutive_difficult_cases INT NOT NULL DEFAULT 0,
    last_frustration_assignment TIMESTAMPTZ,
    avg_resolution_minutes      DOUBLE PRECISION NOT NULL DEFAULT 0,
    customer_satisfaction       DOUBLE PRECISION NOT NULL DEFAULT 0,
    escalation_rate             DOUBLE PRECISION NOT NULL DEFAULT 0,
    shift_start                 TEXT NOT NULL DEFAULT '',
    shift_end                   TEXT NOT NULL DEFAULT '',
    working_days                INT[] NOT NULL DEFAULT '{}',
    created_at                  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at                  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_agents_status ON agents (status) WHERE status = 'available';

CREATE TABLE IF NOT EXISTS routing_decisions (
    id                           UUID PRIMARY KEY,
    escalation_id                UUID NOT NULL,
    outcome                      TEXT NOT NULL,
    agent_id                     UUID REFERENCES agents (id),
    agent_name                   TEXT NOT NULL DEFAULT '',
    strategy                     TEXT NOT NULL,
    match_score                  DOUBLE PRECISION NOT NULL DEFAULT 0,
    confidence                   DOUBLE PRECISION NOT NULL DEFAULT 0,
    alternatives                 JSONB NOT NULL DEFAULT '[]',
    estimated_resolution_minutes INT NOT NULL DEFAULT 0,
    queue_position               INT NOT NULL DEFAULT 0,
    estimated_wait_minutes       INT NOT NULL DEFAULT 0,
    reasoning                    TEXT NOT NULL DEFAULT '',
    created_at                   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_routing_decisions_created_at ON routing_decisions (created_at DESC);
`

// EnsureSchema creates the tables if they do not exist yet. Intended for
// demo and development; production deployments run proper migrations.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres.Store.EnsureSchema: %w", err)
	}
	return nil
}
