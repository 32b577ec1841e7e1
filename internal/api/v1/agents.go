package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/handoff-sh/handoff/internal/domain"
)

type CreateAgentInput struct {
	Body struct {
		Name                 string                      `json:"name" minLength:"1" maxLength:"200" doc:"Agent display name"`
		Email                string                      `json:"email" format:"email" doc:"Unique agent email"`
		Skills               []string                    `json:"skills" minItems:"1" doc:"Skill categories, e.g. technical, billing"`
		SkillLevel           domain.SkillLevel           `json:"skill_level" enum:"junior,intermediate,senior" doc:"Experience level"`
		Languages            []string                    `json:"languages,omitempty" doc:"Spoken languages"`
		Specializations      []string                    `json:"specializations,omitempty" doc:"Specialization tags"`
		MaxConcurrent        int                         `json:"max_concurrent" minimum:"1" maximum:"20" doc:"Concurrent case capacity"`
		FrustrationTolerance domain.FrustrationTolerance `json:"frustration_tolerance,omitempty" enum:"low,medium,high" doc:"Tolerance for difficult customers"`
		ShiftStart           string                      `json:"shift_start,omitempty" doc:"Shift start, HH:MM local"`
		ShiftEnd             string                      `json:"shift_end,omitempty" doc:"Shift end, HH:MM local"`
		WorkingDays          []int                       `json:"working_days,omitempty" doc:"Working weekdays, 0=Sunday"`
	}
}

type CreateAgentOutput struct {
	Status int
	Body   *domain.HumanAgent
}

type GetAgentInput struct {
	ID uuid.UUID `path:"id" doc:"Agent ID"`
}

type GetAgentOutput struct {
	Body *domain.HumanAgent
}

type ListAgentsInput struct {
	Available bool `query:"available" doc:"Only agents selectable for assignment"`
}

type ListAgentsOutput struct {
	Body []*domain.HumanAgent
}

type ResolveAgentCaseInput struct {
	ID uuid.UUID `path:"id" doc:"Agent ID"`
}

type ResolveAgentCaseOutput struct {
	Body *domain.HumanAgent
}

type SetAgentStatusInput struct {
	ID   uuid.UUID `path:"id" doc:"Agent ID"`
	Body struct {
		Status domain.AgentStatus `json:"status" enum:"available,busy,break,offline" doc:"New agent status"`
	}
}

type SetAgentStatusOutput struct {
	Body *domain.HumanAgent
}

// RegisterAgentRoutes wires the agent-directory endpoints.
func RegisterAgentRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-agent",
		Method:        http.MethodPost,
		Path:          "/agents",
		Summary:       "Onboard a human agent",
		Tags:          []string{"Agents"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateAgentInput) (*CreateAgentOutput, error) {
		tolerance := input.Body.FrustrationTolerance
		if tolerance == "" {
			tolerance = domain.ToleranceMedium
		}

		workingDays := make([]time.Weekday, 0, len(input.Body.WorkingDays))
		for _, d := range input.Body.WorkingDays {
			if d < 0 || d > 6 {
				return nil, huma.Error422UnprocessableEntity("working_days values must be 0-6")
			}
			workingDays = append(workingDays, time.Weekday(d))
		}

		agent := &domain.HumanAgent{
			ID:                   uuid.New(),
			Name:                 input.Body.Name,
			Email:                input.Body.Email,
			Skills:               input.Body.Skills,
			SkillLevel:           input.Body.SkillLevel,
			Languages:            input.Body.Languages,
			Specializations:      input.Body.Specializations,
			MaxConcurrent:        input.Body.MaxConcurrent,
			Status:               domain.AgentStatusOffline,
			FrustrationTolerance: tolerance,
			ShiftStart:           input.Body.ShiftStart,
			ShiftEnd:             input.Body.ShiftEnd,
			WorkingDays:          workingDays,
		}

		if err := store.Agents().Create(ctx, agent); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("agent email already registered")
			}
			return nil, huma.Error500InternalServerError("failed to create agent", err)
		}

		return &CreateAgentOutput{Status: http.StatusCreated, Body: agent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-agent",
		Method:      http.MethodGet,
		Path:        "/agents/{id}",
		Summary:     "Get an agent by ID",
		Tags:        []string{"Agents"},
	}, func(ctx context.Context, input *GetAgentInput) (*GetAgentOutput, error) {
		agent, err := store.Agents().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("agent not found")
			}
			return nil, huma.Error500InternalServerError("failed to get agent", err)
		}

		return &GetAgentOutput{Body: agent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-agents",
		Method:      http.MethodGet,
		Path:        "/agents",
		Summary:     "List agents in the directory",
		Tags:        []string{"Agents"},
	}, func(ctx context.Context, input *ListAgentsInput) (*ListAgentsOutput, error) {
		var (
			agents []*domain.HumanAgent
			err    error
		)
		if input.Available {
			agents, err = store.Agents().ListAvailable(ctx)
		} else {
			agents, err = store.Agents().List(ctx)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list agents", err)
		}

		return &ListAgentsOutput{Body: agents}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-agent-case",
		Method:      http.MethodPost,
		Path:        "/agents/{id}/resolve",
		Summary:     "Record that an agent resolved a case",
		Description: "Decrements the agent's workload by one.",
		Tags:        []string{"Agents"},
	}, func(ctx context.Context, input *ResolveAgentCaseInput) (*ResolveAgentCaseOutput, error) {
		agent, err := store.Agents().Release(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("agent not found")
			}
			return nil, huma.Error500InternalServerError("failed to resolve case", err)
		}

		return &ResolveAgentCaseOutput{Body: agent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-agent-status",
		Method:      http.MethodPost,
		Path:        "/agents/{id}/status",
		Summary:     "Change an agent's status",
		Tags:        []string{"Agents"},
	}, func(ctx context.Context, input *SetAgentStatusInput) (*SetAgentStatusOutput, error) {
		if err := store.Agents().SetStatus(ctx, input.ID, input.Body.Status); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("agent not found")
			}
			return nil, huma.Error500InternalServerError("failed to set status", err)
		}

		agent, err := store.Agents().GetByID(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to get agent", err)
		}

		return &SetAgentStatusOutput{Body: agent}, nil
	})
}
