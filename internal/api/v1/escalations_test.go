package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/handoff-sh/handoff/internal/api/v1"
	"github.com/handoff-sh/handoff/internal/domain"
)

func TestRouteEscalationAssigns(t *testing.T) {
	t.Parallel()

	api, store, _ := newTestAPI(t)
	agent := seedAgent(t, store, func(a *domain.HumanAgent) {
		a.Skills = []string{"technical"}
		a.SkillLevel = domain.SkillLevelSenior
	})

	escalationID := uuid.New()
	resp := api.Post("/escalations/route", map[string]any{
		"escalation_id":     escalationID,
		"query_text":        "the api integration keeps crashing with an error",
		"frustration_level": "high",
		"quality_score":     3.5,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var decision domain.RoutingDecision
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &decision))
	assert.Equal(t, escalationID, decision.EscalationID)
	assert.Equal(t, domain.OutcomeAssigned, decision.Outcome)
	require.NotNil(t, decision.AgentID)
	assert.Equal(t, agent.ID, *decision.AgentID)

	// The claim is visible through the directory.
	claimed, err := store.Agents().GetByID(context.Background(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, claimed.CurrentWorkload)
}

func TestRouteEscalationGeneratesID(t *testing.T) {
	t.Parallel()

	api, store, _ := newTestAPI(t)
	seedAgent(t, store, nil)

	resp := api.Post("/escalations/route", map[string]any{
		"query_text": "please help with my account",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var decision domain.RoutingDecision
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &decision))
	assert.NotEqual(t, uuid.Nil, decision.EscalationID)
}

func TestRouteEscalationQueuesWhenNoAgents(t *testing.T) {
	t.Parallel()

	api, _, queue := newTestAPI(t)

	resp := api.Post("/escalations/route", map[string]any{
		"query_text": "anyone there?",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var decision domain.RoutingDecision
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &decision))
	assert.Equal(t, domain.OutcomeQueued, decision.Outcome)
	assert.Nil(t, decision.AgentID)
	assert.Equal(t, 1, decision.QueuePosition)
	assert.Positive(t, decision.EstimatedWaitMinutes)

	depth, err := queue.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, depth)
}

func TestRouteEscalationValidation(t *testing.T) {
	t.Parallel()

	api, _, _ := newTestAPI(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing query text",
			body: map[string]any{"frustration_level": "high"},
		},
		{
			name: "bad frustration level",
			body: map[string]any{"query_text": "hi", "frustration_level": "furious"},
		},
		{
			name: "quality score out of range",
			body: map[string]any{"query_text": "hi", "quality_score": 42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Post("/escalations/route", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		})
	}
}

func TestRouteEscalationUnavailable(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	v1.RegisterEscalationRoutes(api, routerFunc(func(context.Context, uuid.UUID, domain.EscalationInput) (*domain.RoutingDecision, error) {
		return nil, fmt.Errorf("directory down: %w", domain.ErrRoutingUnavailable)
	}))

	resp := api.Post("/escalations/route", map[string]any{
		"query_text": "hello",
	})
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
