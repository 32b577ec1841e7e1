package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/handoff-sh/handoff/internal/domain"
	"github.com/handoff-sh/handoff/internal/llm"
)

// LLMStrategy delegates strategy and scoring to a language model working
// over the same candidate snapshot as the heuristic. Any failure — timeout,
// malformed response, hallucinated agent — falls back to the deterministic
// scorer, so the pipeline's contract is unchanged.
type LLMStrategy struct {
	client   llm.CompletionClient
	fallback RoutingStrategy
	timeout  time.Duration
}

func NewLLMStrategy(client llm.CompletionClient, fallback RoutingStrategy, timeout time.Duration) *LLMStrategy {
	return &LLMStrategy{
		client:   client,
		fallback: fallback,
		timeout:  timeout,
	}
}

const llmSystemPrompt = `You are a routing engine for a customer-support team.
Given an escalation and a roster of human agents, pick the best agent.
Respond with only a JSON object of this shape:
{"selected_agent": "<agent uuid>", "score": <0-100>, "confidence": <0-1>,
 "reasoning": "<one sentence>",
 "alternatives": [{"agent_id": "<uuid>", "score": <0-100>}]}`

type llmVerdict struct {
	SelectedAgent string  `json:"selected_agent"`
	Score         float64 `json:"score"`
	Confidence    float64 `json:"confidence"`
	Reasoning     string  `json:"reasoning"`
	Alternatives  []struct {
		AgentID string  `json:"agent_id"`
		Score   float64 `json:"score"`
	} `json:"alternatives"`
}

func (s *LLMStrategy) Select(ctx context.Context, req domain.EscalationRequest, candidates []*domain.HumanAgent) (*Selection, error) {
	selection, err := s.ask(ctx, req, candidates)
	if err != nil {
		log.Warn().Err(err).Msg("llm router failed, falling back to heuristic")
		return s.fallback.Select(ctx, req, candidates)
	}
	return selection, nil
}

func (s *LLMStrategy) ask(ctx context.Context, req domain.EscalationRequest, candidates []*domain.HumanAgent) (*Selection, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt, err := buildRoutingPrompt(req, candidates)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Complete(ctx, llmSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("routing.LLMStrategy: %w", err)
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*domain.HumanAgent, len(candidates))
	for _, agent := range candidates {
		byID[agent.ID] = agent
	}

	selectedID, err := uuid.Parse(verdict.SelectedAgent)
	if err != nil {
		return nil, fmt.Errorf("routing.LLMStrategy: selected_agent %q is not a uuid", verdict.SelectedAgent)
	}
	selected, ok := byID[selectedID]
	if !ok {
		return nil, fmt.Errorf("routing.LLMStrategy: selected agent %s is not a candidate", selectedID)
	}

	selection := &Selection{
		Agent:      selected,
		Strategy:   domain.StrategyLLM,
		MatchScore: clamp(verdict.Score, 0, 100),
		Confidence: clamp(verdict.Confidence, 0, 1),
		Reasoning:  verdict.Reasoning,
		Ranked:     []RankedAgent{{Agent: selected, Score: clamp(verdict.Score, 0, 100)}},
	}

	for _, alt := range verdict.Alternatives {
		altID, parseErr := uuid.Parse(alt.AgentID)
		if parseErr != nil {
			continue
		}
		agent, found := byID[altID]
		if !found || agent.ID == selected.ID {
			continue
		}
		selection.Ranked = append(selection.Ranked, RankedAgent{
			Agent: agent,
			Score: clamp(alt.Score, 0, 100),
		})
	}

	return selection, nil
}

func buildRoutingPrompt(req domain.EscalationRequest, candidates []*domain.HumanAgent) (string, error) {
	type rosterEntry struct {
		ID                   uuid.UUID `json:"id"`
		Name                 string    `json:"name"`
		Skills               []string  `json:"skills"`
		SkillLevel           string    `json:"skill_level"`
		WorkloadRatio        float64   `json:"workload_ratio"`
		FrustrationTolerance string    `json:"frustration_tolerance"`
		ConsecutiveDifficult int       `json:"consecutive_difficult_cases"`
		Satisfaction         float64   `json:"customer_satisfaction"`
		EscalationRate       float64   `json:"escalation_rate"`
	}

	roster := make([]rosterEntry, 0, len(candidates))
	for _, a := range candidates {
		roster = append(roster, rosterEntry{
			ID:                   a.ID,
			Name:                 a.Name,
			Skills:               a.Skills,
			SkillLevel:           string(a.SkillLevel),
			WorkloadRatio:        a.WorkloadRatio(),
			FrustrationTolerance: string(a.FrustrationTolerance),
			ConsecutiveDifficult: a.ConsecutiveDifficultCases,
			Satisfaction:         a.CustomerSatisfaction,
			EscalationRate:       a.EscalationRate,
		})
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("routing.LLMStrategy: marshal request: %w", err)
	}
	rosterJSON, err := json.Marshal(roster)
	if err != nil {
		return "", fmt.Errorf("routing.LLMStrategy: marshal roster: %w", err)
	}

	return fmt.Sprintf("Escalation:\n%s\n\nAgents:\n%s", reqJSON, rosterJSON), nil
}

// parseVerdict tolerates markdown code fences around the JSON body, which
// chat models emit even when told not to.
func parseVerdict(raw string) (*llmVerdict, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var verdict llmVerdict
	if err := json.Unmarshal([]byte(trimmed), &verdict); err != nil {
		return nil, fmt.Errorf("routing.LLMStrategy: parse verdict: %w", err)
	}
	if verdict.SelectedAgent == "" {
		return nil, fmt.Errorf("routing.LLMStrategy: verdict missing selected_agent")
	}
	return &verdict, nil
}
