package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/querypilot/querypilot/core/domain"
	"github.com/querypilot/querypilot/core/infrastructure/transport/http/dto"
)

// SchemaService answers catalog listing requests
type SchemaService interface {
	ListDatabases(ctx context.Context) ([]string, error)
	ListTables(ctx context.Context, database string) ([]string, error)
	ListColumns(ctx context.Context, database, table string) ([]domain.ColumnMetadata, error)
}

// SchemaHandler serves the schema discovery endpoints
type SchemaHandler struct {
	*BaseHandler
	schema SchemaService
}

// NewSchemaHandler creates a new schema handler
func NewSchemaHandler(schema SchemaService) *SchemaHandler {
	return &SchemaHandler{
		BaseHandler: NewBaseHandler("schema"),
		schema:      schema,
	}
}

// ListDatabases handles GET /databases
func (h *SchemaHandler) ListDatabases(w http.ResponseWriter, r *http.Request) {
	databases, err := h.schema.ListDatabases(r.Context())
	if err != nil {
		h.WriteError(w, err)
		return
	}
	if databases == nil {
		databases = []string{}
	}
	h.WriteSuccess(w, dto.DatabasesResponse{Databases: databases})
}

// ListTables handles GET /databases/{db}/tables
func (h *SchemaHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	database := chi.URLParam(r, "db")

	tables, err := h.schema.ListTables(r.Context(), database)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	h.WriteSuccess(w, dto.TablesResponse{Database: database, Tables: tables})
}

// ListColumns handles GET /databases/{db}/tables/{table}/columns and the
// flat GET /tables/{table}/columns form, where the database falls back
// to the configured default.
func (h *SchemaHandler) ListColumns(w http.ResponseWriter, r *http.Request) {
	database := chi.URLParam(r, "db")
	if database == "" {
		database = r.URL.Query().Get("database")
	}
	table := chi.URLParam(r, "table")

	columns, err := h.schema.ListColumns(r.Context(), database, table)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	if columns == nil {
		columns = []domain.ColumnMetadata{}
	}
	h.WriteSuccess(w, dto.ColumnsResponse{Database: database, Table: table, Columns: columns})
}
