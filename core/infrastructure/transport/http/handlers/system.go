package handlers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/querypilot/querypilot/core/infrastructure/transport/http/dto"
	"github.com/querypilot/querypilot/core/llm"
)

// Pinger checks reachability of an external dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves health and provider metadata endpoints
type SystemHandler struct {
	*BaseHandler
	database Pinger
	llm      llm.Client
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(database Pinger, llmClient llm.Client) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler("system"),
		database:    database,
		llm:         llmClient,
	}
}

// LLMInfo handles GET /llm/info
func (h *SystemHandler) LLMInfo(w http.ResponseWriter, r *http.Request) {
	h.WriteSuccess(w, h.llm.Info())
}

// Health handles GET /health. Both dependencies are probed in parallel;
// the response is 200 "ok" only when both are reachable, otherwise 503
// "degraded" with per-dependency detail.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbStatus, llmStatus := "ok", "ok"

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := h.database.Ping(gctx); err != nil {
			dbStatus = err.Error()
		}
		return nil
	})
	g.Go(func() error {
		if err := h.llm.Ping(gctx); err != nil {
			llmStatus = err.Error()
		}
		return nil
	})
	g.Wait()

	response := dto.HealthResponse{Status: "ok", Database: dbStatus, LLM: llmStatus}
	statusCode := http.StatusOK
	if dbStatus != "ok" || llmStatus != "ok" {
		response.Status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, statusCode, response)
}

// Heartbeat handles GET /heartbeat, a bare liveness probe
func (h *SystemHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
