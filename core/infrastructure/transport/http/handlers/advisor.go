package handlers

import (
	"context"
	"net/http"

	"github.com/querypilot/querypilot/core/infrastructure/transport/http/dto"
)

// AdvisorService produces explanation and optimization text
type AdvisorService interface {
	Explain(ctx context.Context, sqlText string) (string, error)
	Optimize(ctx context.Context, sqlText, database string) (string, error)
}

// AdvisorHandler serves the explain and optimize endpoints
type AdvisorHandler struct {
	*BaseHandler
	advisor AdvisorService
}

// NewAdvisorHandler creates a new advisor handler
func NewAdvisorHandler(advisor AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{
		BaseHandler: NewBaseHandler("advisor"),
		advisor:     advisor,
	}
}

// Explain handles POST /explain
func (h *AdvisorHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req dto.ExplainRequest
	if !h.Bind(w, r, &req) {
		return
	}

	explanation, err := h.advisor.Explain(r.Context(), req.SQL)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, dto.ExplainResponse{Explanation: explanation})
}

// Optimize handles POST /optimize
func (h *AdvisorHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if !h.Bind(w, r, &req) {
		return
	}

	suggestions, err := h.advisor.Optimize(r.Context(), req.SQL, req.Database)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, dto.OptimizeResponse{Suggestions: suggestions})
}
