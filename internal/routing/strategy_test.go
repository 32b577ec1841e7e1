package routing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handoff-sh/handoff/internal/domain"
)

func TestSelectStrategy(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()

	tests := []struct {
		name string
		req  domain.EscalationRequest
		want domain.Strategy
	}{
		{
			name: "critical priority forces skill based",
			req:  domain.EscalationRequest{Priority: domain.PriorityCritical},
			want: domain.StrategySkillBased,
		},
		{
			name: "high frustration forces skill based",
			req: domain.EscalationRequest{
				Priority:            domain.PriorityLow,
				CustomerFrustration: domain.FrustrationHigh,
			},
			want: domain.StrategySkillBased,
		},
		{
			name: "high complexity forces skill based",
			req: domain.EscalationRequest{
				Priority:   domain.PriorityLow,
				Complexity: domain.ComplexityHigh,
			},
			want: domain.StrategySkillBased,
		},
		{
			name: "routine case defaults to wellbeing",
			req: domain.EscalationRequest{
				Priority:            domain.PriorityLow,
				Complexity:          domain.ComplexityLow,
				CustomerFrustration: domain.FrustrationModerate,
			},
			want: domain.StrategyWellbeing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, SelectStrategy(tt.req, policy))
		})
	}
}

func TestHeuristicStrategySelect(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()

	t.Run("picks best skill match for urgent case", func(t *testing.T) {
		t.Parallel()

		specialist := testAgent("specialist", func(a *domain.HumanAgent) {
			a.Skills = []string{"technical", "product_support"}
			a.SkillLevel = domain.SkillLevelSenior
			a.CustomerSatisfaction = 4.8
		})
		generalist := testAgent("generalist", nil)

		strategy := NewHeuristicStrategy(policy)
		selection, err := strategy.Select(context.Background(), domain.EscalationRequest{
			RequiredSkills:      []string{"technical"},
			Priority:            domain.PriorityCritical,
			Complexity:          domain.ComplexityHigh,
			CustomerFrustration: domain.FrustrationModerate,
		}, []*domain.HumanAgent{generalist, specialist})

		require.NoError(t, err)
		assert.Equal(t, specialist.ID, selection.Agent.ID)
		assert.Equal(t, domain.StrategySkillBased, selection.Strategy)
		assert.GreaterOrEqual(t, selection.MatchScore, 0.0)
		assert.LessOrEqual(t, selection.MatchScore, 100.0)
		assert.InDelta(t, selection.MatchScore/100, selection.Confidence, 1e-9)
		assert.Len(t, selection.Ranked, 2)
	})

	t.Run("guard reroutes away from fatigued agent", func(t *testing.T) {
		t.Parallel()

		// Best skill match, but already carrying a streak of hard cases.
		fatigued := testAgent("fatigued", func(a *domain.HumanAgent) {
			a.Skills = []string{"technical"}
			a.SkillLevel = domain.SkillLevelSenior
			a.CustomerSatisfaction = 5.0
			a.ConsecutiveDifficultCases = 3
			a.FrustrationTolerance = domain.ToleranceHigh
		})
		backup := testAgent("backup", func(a *domain.HumanAgent) {
			a.Skills = []string{"technical"}
			a.ConsecutiveDifficultCases = 0
			a.FrustrationTolerance = domain.ToleranceMedium
		})

		strategy := NewHeuristicStrategy(policy)
		selection, err := strategy.Select(context.Background(), domain.EscalationRequest{
			RequiredSkills:      []string{"technical"},
			Priority:            domain.PriorityHigh,
			CustomerFrustration: domain.FrustrationCritical,
		}, []*domain.HumanAgent{fatigued, backup})

		require.NoError(t, err)
		assert.Equal(t, backup.ID, selection.Agent.ID)
	})

	t.Run("guard stands down when no alternate qualifies", func(t *testing.T) {
		t.Parallel()

		fatigued := testAgent("fatigued", func(a *domain.HumanAgent) {
			a.Skills = []string{"technical"}
			a.ConsecutiveDifficultCases = 4
		})
		fragile := testAgent("fragile", func(a *domain.HumanAgent) {
			a.FrustrationTolerance = domain.ToleranceLow
		})

		strategy := NewHeuristicStrategy(policy)
		selection, err := strategy.Select(context.Background(), domain.EscalationRequest{
			RequiredSkills:      []string{"technical"},
			Priority:            domain.PriorityHigh,
			CustomerFrustration: domain.FrustrationHigh,
		}, []*domain.HumanAgent{fatigued, fragile})

		require.NoError(t, err)
		assert.Equal(t, fatigued.ID, selection.Agent.ID)
	})

	t.Run("guard skips calm cases", func(t *testing.T) {
		t.Parallel()

		fatigued := testAgent("fatigued", func(a *domain.HumanAgent) {
			a.Skills = []string{"billing"}
			a.ConsecutiveDifficultCases = 5
		})
		other := testAgent("other", nil)

		strategy := NewHeuristicStrategy(policy)
		selection, err := strategy.Select(context.Background(), domain.EscalationRequest{
			RequiredSkills:      []string{"billing"},
			Priority:            domain.PriorityCritical,
			CustomerFrustration: domain.FrustrationLow,
		}, []*domain.HumanAgent{fatigued, other})

		require.NoError(t, err)
		assert.Equal(t, fatigued.ID, selection.Agent.ID)
	})
}

func TestApplyWellbeingGuardRescoresAlternates(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	now := time.Now()
	req := domain.EscalationRequest{
		RequiredSkills:      []string{"technical"},
		CustomerFrustration: domain.FrustrationHigh,
	}

	selected := testAgent("selected", func(a *domain.HumanAgent) {
		a.ConsecutiveDifficultCases = 3
	})
	strong := testAgent("strong", func(a *domain.HumanAgent) {
		a.Skills = []string{"technical"}
		a.CustomerSatisfaction = 4.9
	})
	weak := testAgent("weak", func(a *domain.HumanAgent) {
		a.Skills = []string{"general"}
		a.CustomerSatisfaction = 3.0
	})

	got := applyWellbeingGuard(selected, []*domain.HumanAgent{selected, weak, strong}, req, policy, now)
	assert.Equal(t, strong.ID, got.ID)
}
