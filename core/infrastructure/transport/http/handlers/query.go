package handlers

import (
	"context"
	"net/http"

	"github.com/querypilot/querypilot/core/application/services"
	"github.com/querypilot/querypilot/core/domain"
	"github.com/querypilot/querypilot/core/infrastructure/transport/http/dto"
	"github.com/querypilot/querypilot/core/runtime/sqlcheck"
)

// AssistantService is the slice of the assistant the query endpoints use
type AssistantService interface {
	Generate(ctx context.Context, question, database string) (*domain.GeneratedSQL, error)
	ExecuteChecked(ctx context.Context, sqlText, database string) (*domain.ResultSet, error)
	GenerateAndExecute(ctx context.Context, question, database string) (*services.CombinedResult, error)
}

// QueryHandler serves the generate, validate and execute endpoints
type QueryHandler struct {
	*BaseHandler
	assistant AssistantService
	check     func(string) (string, error)
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(assistant AssistantService) *QueryHandler {
	return &QueryHandler{
		BaseHandler: NewBaseHandler("query"),
		assistant:   assistant,
		check:       sqlcheck.Check,
	}
}

// Generate handles POST /generate
func (h *QueryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest
	if !h.Bind(w, r, &req) {
		return
	}

	generated, err := h.assistant.Generate(r.Context(), req.Question, req.Database)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, dto.GenerateResponse{SQL: generated.SQL})
}

// Validate handles POST /validate. An invalid statement is a successful
// validation request; the outcome is carried in the body.
func (h *QueryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateRequest
	if !h.Bind(w, r, &req) {
		return
	}

	kind, err := h.check(req.SQL)
	if err != nil {
		h.WriteSuccess(w, dto.ValidateResponse{
			Valid:    false,
			Error:    err.Error(),
			Position: sqlcheck.Position(err),
		})
		return
	}
	h.WriteSuccess(w, dto.ValidateResponse{Valid: true, StatementKind: kind})
}

// Execute handles POST /execute
func (h *QueryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req dto.ExecuteRequest
	if !h.Bind(w, r, &req) {
		return
	}

	result, err := h.assistant.ExecuteChecked(r.Context(), req.SQL, req.Database)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, dto.ExecuteResponse{Columns: result.Columns, Rows: result.Rows})
}

// GenerateAndExecute handles POST /generate-and-execute
func (h *QueryHandler) GenerateAndExecute(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest
	if !h.Bind(w, r, &req) {
		return
	}

	combined, err := h.assistant.GenerateAndExecute(r.Context(), req.Question, req.Database)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, dto.CombinedResponse{
		SQL:         combined.SQL,
		Columns:     combined.Result.Columns,
		Rows:        combined.Result.Rows,
		Suggestions: combined.Suggestions,
	})
}
