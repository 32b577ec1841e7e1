package routing

import (
	"time"

	"github.com/handoff-sh/handoff/internal/domain"
)

// applyWellbeingGuard re-checks a selection against the wellbeing policy.
// When a high-frustration case lands on an agent already carrying a streak
// of difficult cases, the guard looks for a fresher alternate with at least
// medium frustration tolerance and re-scores just those alternates under
// skill-based scoring. The guard is advisory: if no alternate qualifies the
// original selection stands, because an overloaded agent still beats no
// agent at all.
func applyWellbeingGuard(selected *domain.HumanAgent, candidates []*domain.HumanAgent, req domain.EscalationRequest, policy Policy, now time.Time) *domain.HumanAgent {
	if !req.CustomerFrustration.Difficult() {
		return selected
	}
	if selected.ConsecutiveDifficultCases < policy.Wellbeing.GuardDifficultCases {
		return selected
	}

	var alternates []*domain.HumanAgent
	for _, agent := range candidates {
		if agent.ID == selected.ID {
			continue
		}
		if agent.ConsecutiveDifficultCases >= policy.Wellbeing.AlternateMaxDifficult {
			continue
		}
		if agent.FrustrationTolerance == domain.ToleranceLow {
			continue
		}
		alternates = append(alternates, agent)
	}

	if len(alternates) == 0 {
		return selected
	}

	ranked := rankAgents(alternates, req, domain.StrategySkillBased, policy.Weights, now)
	return ranked[0].Agent
}
