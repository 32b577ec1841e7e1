package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/handoff-sh/handoff/internal/domain"
)

type GetQueueOutput struct {
	Body struct {
		Waiting []domain.QueuedEscalation `json:"waiting"`
		Depth   int                       `json:"depth"`
	}
}

// RegisterQueueRoutes wires the waiting-escalation backlog endpoint.
func RegisterQueueRoutes(api huma.API, queue QueueReader) {
	huma.Register(api, huma.Operation{
		OperationID: "get-queue",
		Method:      http.MethodGet,
		Path:        "/queue",
		Summary:     "Snapshot of escalations waiting for an agent",
		Tags:        []string{"Queue"},
	}, func(ctx context.Context, _ *struct{}) (*GetQueueOutput, error) {
		waiting, err := queue.Snapshot(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to read queue", err)
		}

		out := &GetQueueOutput{}
		out.Body.Waiting = waiting
		out.Body.Depth = len(waiting)
		return out, nil
	})
}
