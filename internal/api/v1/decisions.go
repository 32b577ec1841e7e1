package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/handoff-sh/handoff/internal/domain"
)

type ListDecisionsInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"500" default:"50" doc:"Max results, newest first"`
}

type ListDecisionsOutput struct {
	Body []*domain.RoutingDecision
}

// RegisterDecisionRoutes wires the routing-decision log endpoints.
func RegisterDecisionRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-decisions",
		Method:      http.MethodGet,
		Path:        "/decisions",
		Summary:     "List recent routing decisions",
		Tags:        []string{"Decisions"},
	}, func(ctx context.Context, input *ListDecisionsInput) (*ListDecisionsOutput, error) {
		decisions, err := store.Decisions().ListRecent(ctx, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list decisions", err)
		}

		return &ListDecisionsOutput{Body: decisions}, nil
	})
}
