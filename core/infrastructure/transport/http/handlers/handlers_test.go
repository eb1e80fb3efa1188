package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querypilot/querypilot/core/application/services"
	"github.com/querypilot/querypilot/core/domain"
	"github.com/querypilot/querypilot/core/infrastructure/transport/http/dto"
	"github.com/querypilot/querypilot/core/llm"
	apperrors "github.com/querypilot/querypilot/core/shared/errors"
)

type stubSchema struct {
	databases []string
	tables    []string
	columns   []domain.ColumnMetadata
	err       error
}

func (s *stubSchema) ListDatabases(context.Context) ([]string, error) {
	return s.databases, s.err
}

func (s *stubSchema) ListTables(context.Context, string) ([]string, error) {
	return s.tables, s.err
}

func (s *stubSchema) ListColumns(context.Context, string, string) ([]domain.ColumnMetadata, error) {
	return s.columns, s.err
}

type stubAssistant struct {
	generated *domain.GeneratedSQL
	result    *domain.ResultSet
	combined  *services.CombinedResult
	err       error
}

func (s *stubAssistant) Generate(context.Context, string, string) (*domain.GeneratedSQL, error) {
	return s.generated, s.err
}

func (s *stubAssistant) ExecuteChecked(context.Context, string, string) (*domain.ResultSet, error) {
	return s.result, s.err
}

func (s *stubAssistant) GenerateAndExecute(context.Context, string, string) (*services.CombinedResult, error) {
	return s.combined, s.err
}

type stubAdvisor struct {
	explanation string
	suggestions string
	err         error
}

func (s *stubAdvisor) Explain(context.Context, string) (string, error) {
	return s.explanation, s.err
}

func (s *stubAdvisor) Optimize(context.Context, string, string) (string, error) {
	return s.suggestions, s.err
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(context.Context) error { return s.err }

type stubLLM struct {
	pingErr error
	info    llm.ProviderInfo
}

func (s *stubLLM) Complete(context.Context, string, string, llm.Options) (string, error) {
	return "", nil
}

func (s *stubLLM) Ping(context.Context) error { return s.pingErr }

func (s *stubLLM) Info() llm.ProviderInfo { return s.info }

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListDatabases(t *testing.T) {
	handler := NewSchemaHandler(&stubSchema{databases: []string{"analytics", "shop"}})

	rec := httptest.NewRecorder()
	handler.ListDatabases(rec, httptest.NewRequest(http.MethodGet, "/databases", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[dto.DatabasesResponse](t, rec)
	assert.Equal(t, []string{"analytics", "shop"}, body.Databases)
}

func TestListDatabasesEmptyIsAnEmptyList(t *testing.T) {
	handler := NewSchemaHandler(&stubSchema{})

	rec := httptest.NewRecorder()
	handler.ListDatabases(rec, httptest.NewRequest(http.MethodGet, "/databases", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"databases": []}`, rec.Body.String())
}

func TestListTablesUnknownDatabase(t *testing.T) {
	handler := NewSchemaHandler(&stubSchema{
		err: apperrors.NewAppError(apperrors.ErrCodeNotFound, `database "nope" does not exist`, nil),
	})

	router := chi.NewRouter()
	router.Get("/databases/{db}/tables", handler.ListTables)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/databases/nope/tables", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody[dto.ErrorResponse](t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestListColumnsFlatRouteUsesQueryParameter(t *testing.T) {
	handler := NewSchemaHandler(&stubSchema{
		columns: []domain.ColumnMetadata{{Name: "id", Type: "int(11)", IsKey: true}},
	})

	router := chi.NewRouter()
	router.Get("/tables/{table}/columns", handler.ListColumns)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tables/users/columns?database=shop", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[dto.ColumnsResponse](t, rec)
	assert.Equal(t, "shop", body.Database)
	assert.Equal(t, "users", body.Table)
	require.Len(t, body.Columns, 1)
	assert.Equal(t, "id", body.Columns[0].Name)
}

func TestGenerate(t *testing.T) {
	handler := NewQueryHandler(&stubAssistant{
		generated: &domain.GeneratedSQL{SQL: "SELECT COUNT(*) FROM users", Question: "how many users"},
	})

	rec := postJSON(t, handler.Generate, `{"question": "how many users", "database": "shop"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[dto.GenerateResponse](t, rec)
	assert.Equal(t, "SELECT COUNT(*) FROM users", body.SQL)
}

func TestGenerateRequiresQuestion(t *testing.T) {
	handler := NewQueryHandler(&stubAssistant{})

	rec := postJSON(t, handler.Generate, `{"database": "shop"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[dto.ValidationErrorResponse](t, rec)
	assert.False(t, body.Success)
	require.NotEmpty(t, body.Details)
	assert.Equal(t, "Question", body.Details[0].Field)
}

func TestGenerateRejectsMalformedJSON(t *testing.T) {
	handler := NewQueryHandler(&stubAssistant{})

	rec := postJSON(t, handler.Generate, `{"question": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[dto.ErrorResponse](t, rec)
	assert.Equal(t, "INVALID_INPUT", body.Code)
}

func TestGenerateLLMDown(t *testing.T) {
	handler := NewQueryHandler(&stubAssistant{
		err: apperrors.NewAppError(apperrors.ErrCodeLLMUnavailable, "completion endpoint is unavailable", nil),
	})

	rec := postJSON(t, handler.Generate, `{"question": "how many users"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody[dto.ErrorResponse](t, rec)
	assert.Equal(t, "LLM_UNAVAILABLE", body.Code)
}

func TestValidateValidStatement(t *testing.T) {
	handler := NewQueryHandler(&stubAssistant{})

	rec := postJSON(t, handler.Validate, `{"sql": "SELECT 1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[dto.ValidateResponse](t, rec)
	assert.True(t, body.Valid)
	assert.Equal(t, "SELECT", body.StatementKind)
	assert.Empty(t, body.Error)
}

func TestValidateInvalidStatementIsStillA200(t *testing.T) {
	handler := NewQueryHandler(&stubAssistant{})

	rec := postJSON(t, handler.Validate, `{"sql": "SELEC * FROM x"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[dto.ValidateResponse](t, rec)
	assert.False(t, body.Valid)
	assert.NotEmpty(t, body.Error)
	assert.Greater(t, body.Position, 0)
}

func TestExecute(t *testing.T) {
	handler := NewQueryHandler(&stubAssistant{
		result: &domain.ResultSet{Columns: []string{"id"}, Rows: [][]any{{float64(1)}}},
	})

	rec := postJSON(t, handler.Execute, `{"sql": "SELECT id FROM users", "database": "shop"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[dto.ExecuteResponse](t, rec)
	assert.Equal(t, []string{"id"}, body.Columns)
	require.Len(t, body.Rows, 1)
}

func TestExecuteFailedStatement(t *testing.T) {
	handler := NewQueryHandler(&stubAssistant{
		err: apperrors.NewAppError(apperrors.ErrCodeExecutionFailed, "query execution failed", nil),
	})

	rec := postJSON(t, handler.Execute, `{"sql": "SELECT boom FROM nowhere"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody[dto.ErrorResponse](t, rec)
	assert.Equal(t, "EXECUTION_FAILED", body.Code)
}

func TestGenerateAndExecute(t *testing.T) {
	handler := NewQueryHandler(&stubAssistant{
		combined: &services.CombinedResult{
			SQL:         "SELECT COUNT(*) FROM users",
			Result:      domain.ResultSet{Columns: []string{"COUNT(*)"}, Rows: [][]any{{float64(42)}}},
			Suggestions: "Looks fine as is.",
		},
	})

	rec := postJSON(t, handler.GenerateAndExecute, `{"question": "how many users", "database": "shop"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[dto.CombinedResponse](t, rec)
	assert.Equal(t, "SELECT COUNT(*) FROM users", body.SQL)
	assert.Equal(t, []string{"COUNT(*)"}, body.Columns)
	assert.Equal(t, "Looks fine as is.", body.Suggestions)
}

func TestExplain(t *testing.T) {
	handler := NewAdvisorHandler(&stubAdvisor{explanation: "Counts all rows in users."})

	rec := postJSON(t, handler.Explain, `{"sql": "SELECT COUNT(*) FROM users"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[dto.ExplainResponse](t, rec)
	assert.Equal(t, "Counts all rows in users.", body.Explanation)
}

func TestOptimize(t *testing.T) {
	handler := NewAdvisorHandler(&stubAdvisor{suggestions: "Add an index on users(email)."})

	rec := postJSON(t, handler.Optimize, `{"sql": "SELECT * FROM users WHERE email = 'a@b.c'", "database": "shop"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[dto.OptimizeResponse](t, rec)
	assert.Equal(t, "Add an index on users(email).", body.Suggestions)
}

func TestHealthAllDependenciesUp(t *testing.T) {
	handler := NewSystemHandler(&stubPinger{}, &stubLLM{})

	rec := httptest.NewRecorder()
	handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[dto.HealthResponse](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Database)
	assert.Equal(t, "ok", body.LLM)
}

func TestHealthDatabaseDown(t *testing.T) {
	handler := NewSystemHandler(
		&stubPinger{err: apperrors.NewAppError(apperrors.ErrCodeConnectionFailed, "database unreachable", nil)},
		&stubLLM{})

	rec := httptest.NewRecorder()
	handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody[dto.HealthResponse](t, rec)
	assert.Equal(t, "degraded", body.Status)
	assert.Contains(t, body.Database, "database unreachable")
	assert.Equal(t, "ok", body.LLM)
}

func TestLLMInfo(t *testing.T) {
	handler := NewSystemHandler(&stubPinger{}, &stubLLM{
		info: llm.ProviderInfo{Model: "test-model", BaseURL: "http://localhost/v1", UsingCustomBaseURL: true, MaxRetries: 3},
	})

	rec := httptest.NewRecorder()
	handler.LLMInfo(rec, httptest.NewRequest(http.MethodGet, "/llm/info", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[llm.ProviderInfo](t, rec)
	assert.Equal(t, "test-model", body.Model)
	assert.True(t, body.UsingCustomBaseURL)
}

func TestHeartbeat(t *testing.T) {
	handler := NewSystemHandler(&stubPinger{}, &stubLLM{})

	rec := httptest.NewRecorder()
	handler.Heartbeat(rec, httptest.NewRequest(http.MethodGet, "/heartbeat", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
