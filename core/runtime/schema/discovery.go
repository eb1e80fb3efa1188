// Package schema discovers database, table and column metadata from the
// live catalog tables. Every call re-queries the catalogs; results are
// never cached.
package schema

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/querypilot/querypilot/core/domain"
	"github.com/querypilot/querypilot/core/infrastructure/logging"
	"github.com/querypilot/querypilot/core/runtime/connectors"
	apperrors "github.com/querypilot/querypilot/core/shared/errors"
)

// Limits applied when building a prompt-sized snapshot, to avoid
// excessive token usage on wide schemas.
const (
	MaxTables          = 50
	MaxColumnsPerTable = 100
)

// Discovery answers catalog questions through the connector manager
type Discovery struct {
	manager *connectors.Manager
	log     logging.Logger
}

// NewDiscovery creates a new schema discovery service
func NewDiscovery(manager *connectors.Manager) *Discovery {
	return &Discovery{
		manager: manager,
		log:     logging.New("schema"),
	}
}

// catalog returns the pool and schema name to run catalog queries with.
// MySQL exposes every database through one information_schema, so the
// default pool serves all databases. Postgres scopes the catalog per
// database, so a pool for the target database is opened instead.
func (d *Discovery) catalog(ctx context.Context, database string) (*sql.DB, string, error) {
	if database == "" {
		database = d.manager.DefaultDatabase()
	}

	if d.manager.Driver() == "postgres" {
		conn, err := d.manager.Get(ctx, database)
		if err != nil {
			return nil, "", err
		}
		return conn.DB(), "public", nil
	}

	conn, err := d.manager.Get(ctx, "")
	if err != nil {
		return nil, "", err
	}
	return conn.DB(), database, nil
}

// ListDatabases returns the names of all user databases on the server
func (d *Discovery) ListDatabases(ctx context.Context) ([]string, error) {
	db, _, err := d.catalog(ctx, "")
	if err != nil {
		return nil, err
	}

	var query string
	if d.manager.Driver() == "postgres" {
		query = `SELECT datname FROM pg_database WHERE datistemplate = false ORDER BY datname`
	} else {
		query = `
			SELECT schema_name
			FROM information_schema.schemata
			WHERE schema_name NOT IN ('information_schema', 'mysql', 'performance_schema', 'sys')
			ORDER BY schema_name`
	}

	names, err := queryStrings(ctx, db, query)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeConnectionFailed, "failed to list databases", err)
	}
	return names, nil
}

// ListTables returns the table names of a database in catalog order.
// Returns a NOT_FOUND error when the database does not exist.
func (d *Discovery) ListTables(ctx context.Context, database string) ([]string, error) {
	db, schemaName, err := d.catalog(ctx, database)
	if err != nil {
		return nil, err
	}

	if d.manager.Driver() != "postgres" {
		exists, err := d.databaseExists(ctx, db, schemaName)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrCodeConnectionFailed, "failed to check database", err)
		}
		if !exists {
			return nil, apperrors.NewAppError(apperrors.ErrCodeNotFound,
				fmt.Sprintf("database %q does not exist", database), nil)
		}
	}

	query := d.placeholders(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name`)

	tables, err := queryStrings(ctx, db, query, schemaName)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeConnectionFailed, "failed to list tables", err)
	}
	return tables, nil
}

// ListColumns returns column descriptors for a table in ordinal order.
// Returns a NOT_FOUND error when the table does not exist.
func (d *Discovery) ListColumns(ctx context.Context, database, table string) ([]domain.ColumnMetadata, error) {
	db, schemaName, err := d.catalog(ctx, database)
	if err != nil {
		return nil, err
	}

	exists, err := d.tableExists(ctx, db, schemaName, table)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeConnectionFailed, "failed to check table", err)
	}
	if !exists {
		return nil, apperrors.NewAppError(apperrors.ErrCodeNotFound,
			fmt.Sprintf("table %q does not exist", table), nil)
	}

	var query string
	if d.manager.Driver() == "postgres" {
		query = `
			SELECT
				c.column_name,
				c.data_type,
				c.is_nullable,
				CASE WHEN EXISTS (
					SELECT 1 FROM information_schema.key_column_usage kcu
					JOIN information_schema.table_constraints tc
						ON tc.constraint_name = kcu.constraint_name
						AND tc.table_schema = kcu.table_schema
					WHERE kcu.table_schema = c.table_schema
						AND kcu.table_name = c.table_name
						AND kcu.column_name = c.column_name
						AND tc.constraint_type = 'PRIMARY KEY'
				) THEN 1 ELSE 0 END AS is_key
			FROM information_schema.columns c
			WHERE c.table_schema = $1 AND c.table_name = $2
			ORDER BY c.ordinal_position`
	} else {
		// column_key covers PRI, UNI and MUL indexed columns
		query = `
			SELECT column_name, column_type, is_nullable,
				CASE WHEN column_key <> '' THEN 1 ELSE 0 END AS is_key
			FROM information_schema.columns
			WHERE table_schema = ? AND table_name = ?
			ORDER BY ordinal_position`
	}

	rows, err := db.QueryContext(ctx, query, schemaName, table)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeConnectionFailed, "failed to list columns", err)
	}
	defer rows.Close()

	var columns []domain.ColumnMetadata
	for rows.Next() {
		var col domain.ColumnMetadata
		var nullable string
		var isKey int
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &isKey); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrCodeConnectionFailed, "failed to scan column", err)
		}
		col.Nullable = nullable == "YES"
		col.IsKey = isKey == 1
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeConnectionFailed, "failed to read columns", err)
	}

	return columns, nil
}

// Snapshot builds a full metadata snapshot of one database, truncated
// to the prompt limits
func (d *Discovery) Snapshot(ctx context.Context, database string) (*domain.DatabaseMetadata, error) {
	if database == "" {
		database = d.manager.DefaultDatabase()
	}

	tables, err := d.ListTables(ctx, database)
	if err != nil {
		return nil, err
	}
	if len(tables) > MaxTables {
		d.log.Debugf("Truncating snapshot of %q to %d of %d tables", database, MaxTables, len(tables))
		tables = tables[:MaxTables]
	}

	meta := &domain.DatabaseMetadata{Name: database}
	for _, table := range tables {
		columns, err := d.ListColumns(ctx, database, table)
		if err != nil {
			return nil, err
		}
		if len(columns) > MaxColumnsPerTable {
			columns = columns[:MaxColumnsPerTable]
		}
		meta.Tables = append(meta.Tables, domain.TableMetadata{Name: table, Columns: columns})
	}

	return meta, nil
}

func (d *Discovery) databaseExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM information_schema.schemata WHERE schema_name = ?`
	if err := db.QueryRowContext(ctx, query, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *Discovery) tableExists(ctx context.Context, db *sql.DB, schemaName, table string) (bool, error) {
	var count int
	query := d.placeholders(`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = ? AND table_name = ?`)
	if err := db.QueryRowContext(ctx, query, schemaName, table).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// placeholders rewrites ? markers to $N for postgres
func (d *Discovery) placeholders(query string) string {
	if d.manager.Driver() != "postgres" {
		return query
	}
	out := make([]byte, 0, len(query)+4)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = append(out, fmt.Sprintf("$%d", n)...)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}

// queryStrings runs a query returning a single string column
func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
