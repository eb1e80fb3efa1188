package connectors

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/querypilot/querypilot/core/domain"
)

// PostgresConnector implements the Connector interface for PostgreSQL
type PostgresConnector struct {
	db *sql.DB
}

// NewPostgresConnector creates a new PostgreSQL connector using the pgx
// stdlib driver
func NewPostgresConnector(connectionString string) (*PostgresConnector, error) {
	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return &PostgresConnector{db: db}, nil
}

// Query executes a SQL statement against PostgreSQL and fetches all rows
func (p *PostgresConnector) Query(ctx context.Context, statement string) (*domain.ResultSet, error) {
	return queryAll(ctx, p.db, statement)
}

// Ping verifies the connection is alive
func (p *PostgresConnector) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database connection
func (p *PostgresConnector) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// DB returns the underlying pool
func (p *PostgresConnector) DB() *sql.DB {
	return p.db
}
