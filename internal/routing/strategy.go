package routing

import (
	"context"
	"slices"
	"time"

	"github.com/handoff-sh/handoff/internal/domain"
)

// RankedAgent pairs a candidate with its raw score under the strategy that
// produced the ranking.
type RankedAgent struct {
	Agent *domain.HumanAgent
	Score float64
}

// Selection is the output of a routing strategy: the chosen agent plus the
// full ranking it was drawn from. MatchScore is normalized to 0-100.
type Selection struct {
	Agent      *domain.HumanAgent
	Strategy   domain.Strategy
	MatchScore float64
	Confidence float64
	Reasoning  string
	Ranked     []RankedAgent
}

// RoutingStrategy picks an agent from a non-empty candidate snapshot. The
// deterministic heuristic and the LLM-backed router both implement it;
// which one runs is a wiring decision, not an if branch in the pipeline.
type RoutingStrategy interface {
	Select(ctx context.Context, req domain.EscalationRequest, candidates []*domain.HumanAgent) (*Selection, error)
}

// SelectStrategy is the decision table mapping a request to a scoring
// strategy. The sets that force skill-first routing live in the policy.
func SelectStrategy(req domain.EscalationRequest, policy Policy) domain.Strategy {
	if slices.Contains(policy.SkillFirstPriorities, req.Priority) ||
		slices.Contains(policy.SkillFirstFrustrations, req.CustomerFrustration) {
		return domain.StrategySkillBased
	}
	if req.Complexity == domain.ComplexityHigh {
		return domain.StrategySkillBased
	}
	return domain.StrategyWellbeing
}

// HeuristicStrategy is the deterministic scorer: strategy selection, ranking
// and the wellbeing guard, all pure over the candidate snapshot.
type HeuristicStrategy struct {
	policy Policy
	now    func() time.Time
}

func NewHeuristicStrategy(policy Policy) *HeuristicStrategy {
	return &HeuristicStrategy{policy: policy, now: time.Now}
}

func (h *HeuristicStrategy) Select(_ context.Context, req domain.EscalationRequest, candidates []*domain.HumanAgent) (*Selection, error) {
	strategy := SelectStrategy(req, h.policy)
	now := h.now()

	ranked := rankAgents(candidates, req, strategy, h.policy.Weights, now)
	selected := applyWellbeingGuard(ranked[0].Agent, candidates, req, h.policy, now)

	// Guard substitution keeps the original ranking for alternatives but
	// reports the score of the agent actually chosen.
	score := ranked[0].Score
	if selected.ID != ranked[0].Agent.ID {
		for _, ra := range ranked {
			if ra.Agent.ID == selected.ID {
				score = ra.Score
				break
			}
		}
	}

	match := normalizeScore(score, maxPossibleScore(req, strategy, h.policy.Weights))

	return &Selection{
		Agent:      selected,
		Strategy:   strategy,
		MatchScore: match,
		Confidence: match / 100,
		Ranked:     ranked,
	}, nil
}
