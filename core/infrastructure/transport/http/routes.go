package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/querypilot/querypilot/core/infrastructure/logging"
	"github.com/querypilot/querypilot/core/infrastructure/transport/http/handlers"
	"github.com/querypilot/querypilot/core/infrastructure/transport/http/ui"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Schema  *handlers.SchemaHandler
	Query   *handlers.QueryHandler
	Advisor *handlers.AdvisorHandler
	System  *handlers.SystemHandler
	UI      *ui.Handler
}

// RegisterRoutes registers all HTTP routes. The versioned /api/v1 tree
// is canonical; the flat paths are deprecated aliases kept for older
// clients.
func RegisterRoutes(r *chi.Mux, h Handlers) {
	log := logging.New("routes")

	r.Route("/api/v1", func(r chi.Router) {
		mountAPI(r, h)
	})

	// Deprecated flat aliases
	mountAPI(r, h)

	// Operational endpoints
	r.Get("/health", h.System.Health)
	r.Get("/heartbeat", h.System.Heartbeat)
	r.Method("GET", "/metrics", promhttp.Handler())

	// Browser UI
	if h.UI != nil {
		r.Get("/", h.UI.Index)
	}

	log.Infof("Routes registered under /api/v1 (canonical) and / (deprecated aliases)")
}

// mountAPI registers the API surface onto a router node
func mountAPI(r chi.Router, h Handlers) {
	r.Get("/databases", h.Schema.ListDatabases)
	r.Get("/databases/{db}/tables", h.Schema.ListTables)
	r.Get("/databases/{db}/tables/{table}/columns", h.Schema.ListColumns)
	r.Get("/tables/{table}/columns", h.Schema.ListColumns)

	r.Post("/generate", h.Query.Generate)
	r.Post("/validate", h.Query.Validate)
	r.Post("/execute", h.Query.Execute)
	r.Post("/generate-and-execute", h.Query.GenerateAndExecute)

	r.Post("/explain", h.Advisor.Explain)
	r.Post("/optimize", h.Advisor.Optimize)

	r.Get("/llm/info", h.System.LLMInfo)
}
