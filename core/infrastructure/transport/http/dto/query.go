package dto

import "github.com/querypilot/querypilot/core/domain"

// DatabasesResponse lists database names
type DatabasesResponse struct {
	Databases []string `json:"databases"`
}

// TablesResponse lists table names within a database
type TablesResponse struct {
	Database string   `json:"database"`
	Tables   []string `json:"tables"`
}

// ColumnsResponse lists column descriptors for a table
type ColumnsResponse struct {
	Database string                  `json:"database,omitempty"`
	Table    string                  `json:"table"`
	Columns  []domain.ColumnMetadata `json:"columns"`
}

// GenerateRequest asks for SQL generated from a question
type GenerateRequest struct {
	Question string `json:"question" validate:"required"`
	Database string `json:"database"`
}

// GenerateResponse carries the generated SQL
type GenerateResponse struct {
	SQL string `json:"sql"`
}

// ValidateRequest asks for a syntax check of a statement
type ValidateRequest struct {
	SQL string `json:"sql" validate:"required"`
}

// ValidateResponse reports the outcome of a syntax check
type ValidateResponse struct {
	Valid         bool   `json:"valid"`
	StatementKind string `json:"statementKind,omitempty"`
	Error         string `json:"error,omitempty"`
	Position      int    `json:"position,omitempty"`
}

// ExecuteRequest asks for a statement to be validated and executed
type ExecuteRequest struct {
	SQL      string `json:"sql" validate:"required"`
	Database string `json:"database"`
}

// ExecuteResponse carries an executed statement's result snapshot
type ExecuteResponse struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// CombinedResponse is the generate-and-execute result
type CombinedResponse struct {
	SQL         string   `json:"sql"`
	Columns     []string `json:"columns"`
	Rows        [][]any  `json:"rows"`
	Suggestions string   `json:"suggestions,omitempty"`
}

// ExplainRequest asks for a plain-English explanation of a statement
type ExplainRequest struct {
	SQL string `json:"sql" validate:"required"`
}

// ExplainResponse carries the explanation text
type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

// OptimizeRequest asks for indexing suggestions for a statement
type OptimizeRequest struct {
	SQL      string `json:"sql" validate:"required"`
	Question string `json:"question"`
	Database string `json:"database"`
}

// OptimizeResponse carries the suggestion text
type OptimizeResponse struct {
	Suggestions string `json:"suggestions"`
}
