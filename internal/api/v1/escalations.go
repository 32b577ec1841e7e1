package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/handoff-sh/handoff/internal/domain"
)

type RouteEscalationInput struct {
	Body struct {
		EscalationID     uuid.UUID               `json:"escalation_id,omitempty" doc:"Escalation ID; generated when omitted"`
		QueryText        string                  `json:"query_text" minLength:"1" maxLength:"10000" doc:"Raw customer query text"`
		EscalationReason string                  `json:"escalation_reason,omitempty" maxLength:"2000" doc:"Why the conversation escalated"`
		FrustrationLevel domain.FrustrationLevel `json:"frustration_level,omitempty" enum:"low,moderate,high,critical" doc:"Upstream frustration assessment"`
		FrustrationScore float64                 `json:"frustration_score,omitempty" minimum:"0" maximum:"10" doc:"Numeric frustration score"`
		QualityScore     float64                 `json:"quality_score,omitempty" minimum:"0" maximum:"10" doc:"Upstream quality assessment"`
		PriorEscalations int                     `json:"prior_escalations,omitempty" minimum:"0" doc:"Escalations earlier in this case"`
		InteractionCount int                     `json:"interaction_count,omitempty" minimum:"0" doc:"Conversation turns so far"`
		CustomerTier     string                  `json:"customer_tier,omitempty" maxLength:"50" doc:"Customer tier, e.g. premium"`
	}
}

type RouteEscalationOutput struct {
	Body *domain.RoutingDecision
}

// RegisterEscalationRoutes wires the routing pipeline endpoint.
func RegisterEscalationRoutes(api huma.API, router EscalationRouter) {
	huma.Register(api, huma.Operation{
		OperationID: "route-escalation",
		Method:      http.MethodPost,
		Path:        "/escalations/route",
		Summary:     "Route an escalation to a human agent",
		Description: "Runs one pass of the routing pipeline. Returns an assignment, or a queue entry when no agent qualifies.",
		Tags:        []string{"Escalations"},
	}, func(ctx context.Context, input *RouteEscalationInput) (*RouteEscalationOutput, error) {
		escalationID := input.Body.EscalationID
		if escalationID == uuid.Nil {
			escalationID = uuid.New()
		}

		decision, err := router.Route(ctx, escalationID, domain.EscalationInput{
			QueryText:        input.Body.QueryText,
			EscalationReason: input.Body.EscalationReason,
			FrustrationLevel: input.Body.FrustrationLevel,
			FrustrationScore: input.Body.FrustrationScore,
			QualityScore:     input.Body.QualityScore,
			PriorEscalations: input.Body.PriorEscalations,
			InteractionCount: input.Body.InteractionCount,
			CustomerTier:     input.Body.CustomerTier,
		})
		if err != nil {
			if errors.Is(err, domain.ErrRoutingUnavailable) {
				return nil, huma.Error503ServiceUnavailable("routing temporarily unavailable", err)
			}
			return nil, huma.Error500InternalServerError("failed to route escalation", err)
		}

		return &RouteEscalationOutput{Body: decision}, nil
	})
}
