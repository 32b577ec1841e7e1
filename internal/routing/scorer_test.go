package routing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handoff-sh/handoff/internal/domain"
)

func TestSkillBasedScore(t *testing.T) {
	t.Parallel()

	w := DefaultPolicy().Weights
	req := domain.EscalationRequest{
		RequiredSkills: []string{"technical", "billing"},
		Complexity:     domain.ComplexityHigh,
	}

	t.Run("full skill match beats partial", func(t *testing.T) {
		t.Parallel()

		full := testAgent("full", func(a *domain.HumanAgent) {
			a.Skills = []string{"technical", "billing"}
		})
		partial := testAgent("partial", func(a *domain.HumanAgent) {
			a.Skills = []string{"technical"}
		})

		assert.Greater(t, skillBasedScore(full, req, w), skillBasedScore(partial, req, w))
	})

	t.Run("senior bonus applies on non-low complexity", func(t *testing.T) {
		t.Parallel()

		senior := testAgent("senior", func(a *domain.HumanAgent) {
			a.SkillLevel = domain.SkillLevelSenior
		})
		junior := testAgent("junior", func(a *domain.HumanAgent) {
			a.SkillLevel = domain.SkillLevelJunior
		})

		assert.InDelta(t, w.SeniorComplexBonus,
			skillBasedScore(senior, req, w)-skillBasedScore(junior, req, w), 1e-9)

		easy := req
		easy.Complexity = domain.ComplexityLow
		assert.InDelta(t, 0,
			skillBasedScore(senior, easy, w)-skillBasedScore(junior, easy, w), 1e-9)
	})

	t.Run("escalation rate is monotonic penalty", func(t *testing.T) {
		t.Parallel()

		clean := testAgent("clean", func(a *domain.HumanAgent) { a.EscalationRate = 0.02 })
		shaky := testAgent("shaky", func(a *domain.HumanAgent) { a.EscalationRate = 0.30 })

		assert.Greater(t, skillBasedScore(clean, req, w), skillBasedScore(shaky, req, w))
	})

	t.Run("headroom favours idle agents", func(t *testing.T) {
		t.Parallel()

		idle := testAgent("idle", func(a *domain.HumanAgent) { a.CurrentWorkload = 0 })
		busy := testAgent("busy", func(a *domain.HumanAgent) { a.CurrentWorkload = 2 })

		assert.Greater(t, skillBasedScore(idle, req, w), skillBasedScore(busy, req, w))
	})
}

func TestWorkloadBalancedScore(t *testing.T) {
	t.Parallel()

	light := testAgent("light", func(a *domain.HumanAgent) { a.CurrentWorkload = 1 })
	heavy := testAgent("heavy", func(a *domain.HumanAgent) { a.CurrentWorkload = 2 })

	assert.Greater(t, workloadBalancedScore(light), workloadBalancedScore(heavy))
}

func TestWellbeingScore(t *testing.T) {
	t.Parallel()

	w := DefaultPolicy().Weights
	now := time.Now()

	difficult := domain.EscalationRequest{
		RequiredSkills:      []string{"general"},
		CustomerFrustration: domain.FrustrationHigh,
	}
	calm := domain.EscalationRequest{
		RequiredSkills:      []string{"general"},
		CustomerFrustration: domain.FrustrationLow,
	}

	t.Run("tolerance counts only on difficult cases", func(t *testing.T) {
		t.Parallel()

		tough := testAgent("tough", func(a *domain.HumanAgent) {
			a.FrustrationTolerance = domain.ToleranceHigh
		})
		fragile := testAgent("fragile", func(a *domain.HumanAgent) {
			a.FrustrationTolerance = domain.ToleranceLow
		})

		assert.Greater(t, wellbeingScore(tough, difficult, w, now), wellbeingScore(fragile, difficult, w, now))
		assert.InDelta(t, wellbeingScore(tough, calm, w, now), wellbeingScore(fragile, calm, w, now), 1e-9)
	})

	t.Run("cooling-off penalty and rested bonus", func(t *testing.T) {
		t.Parallel()

		recent := now.Add(-30 * time.Minute)
		rested := now.Add(-5 * time.Hour)

		cooling := testAgent("cooling", func(a *domain.HumanAgent) {
			a.LastFrustrationAssignment = &recent
		})
		fresh := testAgent("fresh", func(a *domain.HumanAgent) {
			a.LastFrustrationAssignment = &rested
		})
		neutral := testAgent("neutral", nil)

		assert.Less(t, wellbeingScore(cooling, difficult, w, now), wellbeingScore(neutral, difficult, w, now))
		assert.Greater(t, wellbeingScore(fresh, difficult, w, now), wellbeingScore(neutral, difficult, w, now))
	})

	t.Run("fatigue penalty applies regardless of case difficulty", func(t *testing.T) {
		t.Parallel()

		tired := testAgent("tired", func(a *domain.HumanAgent) {
			a.ConsecutiveDifficultCases = 2
		})
		rested := testAgent("rested", nil)

		assert.Less(t, wellbeingScore(tired, calm, w, now), wellbeingScore(rested, calm, w, now))
	})
}

func TestRankAgentsDeterministicTieBreak(t *testing.T) {
	t.Parallel()

	w := DefaultPolicy().Weights
	req := domain.EscalationRequest{RequiredSkills: []string{"general"}}

	// Identical agents apart from their IDs; scores tie exactly.
	a := testAgent("a", func(ag *domain.HumanAgent) {
		ag.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	})
	b := testAgent("b", func(ag *domain.HumanAgent) {
		ag.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	})

	for range 10 {
		ranked := rankAgents([]*domain.HumanAgent{b, a}, req, domain.StrategySkillBased, w, time.Now())
		require.Len(t, ranked, 2)
		assert.Equal(t, a.ID, ranked[0].Agent.ID)
	}
}

func TestNormalizeScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         float64
		maxPossible float64
		want        float64
	}{
		{"mid range", 50, 100, 50},
		{"clamped above", 150, 100, 100},
		{"clamped below", -10, 100, 0},
		{"workload idle agent", 0, 0, 100},
		{"workload one case", -1, 0, 90},
		{"workload very loaded", -20, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := normalizeScore(tt.raw, tt.maxPossible)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}
