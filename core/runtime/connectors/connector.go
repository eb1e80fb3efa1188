package connectors

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/querypilot/querypilot/core/domain"
)

// Connector defines the interface for database connectors.
// All connectors implementing this interface automatically benefit from
// parallel shutdown via ConnectorManager.
type Connector interface {
	// Query executes a statement with context support and fetches all
	// rows eagerly. The context allows cancellation and timeout
	// propagation from HTTP requests.
	Query(ctx context.Context, statement string) (*domain.ResultSet, error)

	// Ping verifies the connection is alive
	Ping(ctx context.Context) error

	// DB exposes the underlying pool for parameterized catalog queries
	DB() *sql.DB

	// Close closes the connector and releases resources
	Close() error
}

// New creates a new connector for the given driver and connection string
func New(driver, connectionString string) (Connector, error) {
	switch driver {
	case "mysql":
		return NewMySQLConnector(connectionString)
	case "postgres":
		return NewPostgresConnector(connectionString)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// queryAll runs a statement through a database/sql pool and snapshots
// every row. Shared by the MySQL and Postgres connectors.
func queryAll(ctx context.Context, db *sql.DB, statement string) (*domain.ResultSet, error) {
	rows, err := db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &domain.ResultSet{
		Columns: columns,
		Rows:    [][]any{},
	}

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		// Convert []byte to string for better JSON serialization
		for i, val := range values {
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			}
		}

		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}
