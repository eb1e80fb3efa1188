package domain

// ColumnMetadata describes a single column as reported by the catalog.
type ColumnMetadata struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	IsKey    bool   `json:"isKey"`
}

// TableMetadata describes a table and its columns in ordinal order.
type TableMetadata struct {
	Name    string           `json:"name"`
	Columns []ColumnMetadata `json:"columns"`
}

// DatabaseMetadata is a point-in-time snapshot of one database's schema.
// It is discovered fresh per request; there is no caching layer.
type DatabaseMetadata struct {
	Name   string          `json:"name"`
	Tables []TableMetadata `json:"tables"`
}

// QueryRequest carries a natural-language question and the database it
// should be answered against. Transient, one per API call.
type QueryRequest struct {
	Question string `json:"question"`
	Database string `json:"database"`
}

// GeneratedSQL is the output of the generator. It exists only within a
// single request's lifetime and must pass the syntax checker before it
// reaches the executor.
type GeneratedSQL struct {
	SQL      string `json:"sql"`
	Question string `json:"question"`
}

// ResultSet is an immutable snapshot of query output at read time.
// Column order matches the statement's select list; each row holds one
// value per column in the same order.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}
