package connectors

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/querypilot/querypilot/core/domain"
)

// MySQLConnector implements the Connector interface for MySQL
type MySQLConnector struct {
	db *sql.DB
}

// NewMySQLConnector creates a new MySQL connector
func NewMySQLConnector(connectionString string) (*MySQLConnector, error) {
	db, err := sql.Open("mysql", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping mysql database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return &MySQLConnector{db: db}, nil
}

// WrapMySQLPool builds a connector around an existing pool. The caller
// keeps ownership of pool configuration.
func WrapMySQLPool(db *sql.DB) *MySQLConnector {
	return &MySQLConnector{db: db}
}

// Query executes a SQL statement against MySQL and fetches all rows
func (m *MySQLConnector) Query(ctx context.Context, statement string) (*domain.ResultSet, error) {
	return queryAll(ctx, m.db, statement)
}

// Ping verifies the connection is alive
func (m *MySQLConnector) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// Close closes the database connection
func (m *MySQLConnector) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// DB returns the underlying pool. Used by the schema and advisor layers
// which need parameterized catalog queries.
func (m *MySQLConnector) DB() *sql.DB {
	return m.db
}
