package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/handoff-sh/handoff/internal/api/v1"
	"github.com/handoff-sh/handoff/internal/api/ws"
)

func registerAPIRoutes(api huma.API, store v1.DataStore, router v1.EscalationRouter, queue v1.QueueReader) {
	v1.RegisterEscalationRoutes(api, router)
	v1.RegisterAgentRoutes(api, store)
	v1.RegisterDecisionRoutes(api, store)
	v1.RegisterQueueRoutes(api, queue)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/decisions", hub.ServeDecisions)
}
