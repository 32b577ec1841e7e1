package routing

import (
	"sort"
	"time"

	"github.com/handoff-sh/handoff/internal/domain"
)

// rankAgents scores every candidate under the given strategy and returns
// them ordered best-first. Ties break on agent ID ascending so the ranking
// is deterministic across runs.
func rankAgents(candidates []*domain.HumanAgent, req domain.EscalationRequest, strategy domain.Strategy, w ScoringWeights, now time.Time) []RankedAgent {
	ranked := make([]RankedAgent, 0, len(candidates))
	for _, agent := range candidates {
		ranked = append(ranked, RankedAgent{
			Agent: agent,
			Score: scoreAgent(agent, req, strategy, w, now),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Agent.ID.String() < ranked[j].Agent.ID.String()
	})

	return ranked
}

// scoreAgent computes the raw match score for one agent. Pure over the
// snapshot; only relative order matters for selection.
func scoreAgent(agent *domain.HumanAgent, req domain.EscalationRequest, strategy domain.Strategy, w ScoringWeights, now time.Time) float64 {
	switch strategy {
	case domain.StrategyWorkloadBalanced:
		return workloadBalancedScore(agent)
	case domain.StrategyWellbeing:
		return wellbeingScore(agent, req, w, now)
	default:
		return skillBasedScore(agent, req, w)
	}
}

func skillBasedScore(agent *domain.HumanAgent, req domain.EscalationRequest, w ScoringWeights) float64 {
	score := float64(agent.MatchedSkills(req.RequiredSkills)) * w.SkillMatch

	if req.Complexity != domain.ComplexityLow && agent.SkillLevel == domain.SkillLevelSenior {
		score += w.SeniorComplexBonus
	}

	score += w.SatisfactionFactor * agent.CustomerSatisfaction
	score -= w.EscalationPenalty * agent.EscalationRate
	score += w.HeadroomBonus * (1 - agent.WorkloadRatio())

	return score
}

// workloadBalancedScore is pure workload minimization: the least-loaded
// agent wins. Negation turns it into a max-selection like the others.
func workloadBalancedScore(agent *domain.HumanAgent) float64 {
	return -float64(agent.CurrentWorkload)
}

func wellbeingScore(agent *domain.HumanAgent, req domain.EscalationRequest, w ScoringWeights, now time.Time) float64 {
	score := float64(agent.MatchedSkills(req.RequiredSkills)) * w.WellbeingSkillMatch
	score += w.WellbeingHeadroom * (1 - agent.WorkloadRatio())

	if req.CustomerFrustration.Difficult() {
		score += w.ToleranceBonus[agent.FrustrationTolerance]

		// Recency of the last difficult assignment: penalize agents still
		// cooling off, favour ones that have had a breather.
		if agent.LastFrustrationAssignment != nil {
			since := now.Sub(*agent.LastFrustrationAssignment)
			switch {
			case since < w.RecentFrustrationWindow:
				score -= w.RecentFrustrationPenalty
			case since > w.RestedWindow:
				score += w.RestedBonus
			}
		}
	}

	if agent.ConsecutiveDifficultCases >= w.FatigueThreshold {
		score -= w.FatiguePenalty
	}

	return score
}

// maxPossibleScore is the theoretical ceiling of the raw score under the
// strategy, used to normalize match_score into 0-100 for reporting.
func maxPossibleScore(req domain.EscalationRequest, strategy domain.Strategy, w ScoringWeights) float64 {
	switch strategy {
	case domain.StrategyWorkloadBalanced:
		// Raw is -workload; the ceiling is an idle agent.
		return 0
	case domain.StrategyWellbeing:
		ceiling := float64(len(req.RequiredSkills))*w.WellbeingSkillMatch + w.WellbeingHeadroom
		if req.CustomerFrustration.Difficult() {
			ceiling += maxToleranceBonus(w) + w.RestedBonus
		}
		return ceiling
	default:
		return float64(len(req.RequiredSkills))*w.SkillMatch +
			w.SeniorComplexBonus +
			w.SatisfactionFactor*5 + // satisfaction is a 0-5 scale
			w.HeadroomBonus
	}
}

func maxToleranceBonus(w ScoringWeights) float64 {
	best := 0.0
	for _, bonus := range w.ToleranceBonus {
		if bonus > best {
			best = bonus
		}
	}
	return best
}

// normalizeScore maps a raw score onto [0,100]. The workload strategy has a
// zero ceiling (raw scores are negative workloads), so it normalizes on
// headroom instead of the raw value.
func normalizeScore(raw, maxPossible float64) float64 {
	if maxPossible <= 0 {
		if raw >= 0 {
			return 100
		}
		// Raw is -workload; map 0..10+ concurrent cases onto 100..0.
		normalized := 100 + raw*10
		return clamp(normalized, 0, 100)
	}
	return clamp(raw/maxPossible*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
