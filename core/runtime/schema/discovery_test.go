package schema

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querypilot/querypilot/core/config"
	"github.com/querypilot/querypilot/core/runtime/connectors"
	apperrors "github.com/querypilot/querypilot/core/shared/errors"
)

func newMockDiscovery(t *testing.T, defaultDB string) (*Discovery, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	manager := connectors.NewManager(&config.DatabaseConfig{
		Driver: "mysql",
		Host:   "localhost",
		Port:   3306,
		User:   "test",
		Name:   defaultDB,
	})
	manager.Register(defaultDB, connectors.WrapMySQLPool(db))

	return NewDiscovery(manager), mock
}

func expectDatabaseExists(mock sqlmock.Sqlmock, exists bool) {
	count := 0
	if exists {
		count = 1
	}
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM information_schema\.schemata`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func expectTableExists(mock sqlmock.Sqlmock, exists bool) {
	count := 0
	if exists {
		count = 1
	}
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM information_schema\.tables`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func TestListDatabases(t *testing.T) {
	discovery, mock := newMockDiscovery(t, "shop")

	mock.ExpectQuery(`SELECT schema_name`).
		WillReturnRows(sqlmock.NewRows([]string{"schema_name"}).
			AddRow("analytics").
			AddRow("shop"))

	databases, err := discovery.ListDatabases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"analytics", "shop"}, databases)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTablesIsSubsetComplete(t *testing.T) {
	discovery, mock := newMockDiscovery(t, "shop")

	expectDatabaseExists(mock, true)
	mock.ExpectQuery(`SELECT table_name`).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("orders").
			AddRow("users"))

	tables, err := discovery.ListTables(context.Background(), "shop")
	require.NoError(t, err)

	// Exactly the catalog listing: no omissions, no duplicates
	assert.Equal(t, []string{"orders", "users"}, tables)
	seen := map[string]bool{}
	for _, table := range tables {
		assert.False(t, seen[table], "duplicate table %q", table)
		seen[table] = true
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTablesUnknownDatabase(t *testing.T) {
	discovery, mock := newMockDiscovery(t, "shop")

	expectDatabaseExists(mock, false)

	_, err := discovery.ListTables(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListColumns(t *testing.T) {
	discovery, mock := newMockDiscovery(t, "shop")

	expectTableExists(mock, true)
	mock.ExpectQuery(`SELECT column_name, column_type`).
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "is_key"}).
			AddRow("id", "int(11)", "NO", 1).
			AddRow("email", "varchar(255)", "YES", 0))

	columns, err := discovery.ListColumns(context.Background(), "shop", "users")
	require.NoError(t, err)
	require.Len(t, columns, 2)

	assert.Equal(t, "id", columns[0].Name)
	assert.Equal(t, "int(11)", columns[0].Type)
	assert.False(t, columns[0].Nullable)
	assert.True(t, columns[0].IsKey)

	assert.Equal(t, "email", columns[1].Name)
	assert.True(t, columns[1].Nullable)
	assert.False(t, columns[1].IsKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListColumnsUnknownTable(t *testing.T) {
	discovery, mock := newMockDiscovery(t, "shop")

	expectTableExists(mock, false)

	_, err := discovery.ListColumns(context.Background(), "shop", "ghosts")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSnapshot(t *testing.T) {
	discovery, mock := newMockDiscovery(t, "shop")

	expectDatabaseExists(mock, true)
	mock.ExpectQuery(`SELECT table_name`).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("users"))
	expectTableExists(mock, true)
	mock.ExpectQuery(`SELECT column_name, column_type`).
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "is_key"}).
			AddRow("id", "int(11)", "NO", 1).
			AddRow("name", "varchar(100)", "YES", 0))

	meta, err := discovery.Snapshot(context.Background(), "shop")
	require.NoError(t, err)

	assert.Equal(t, "shop", meta.Name)
	require.Len(t, meta.Tables, 1)
	assert.Equal(t, "users", meta.Tables[0].Name)
	require.Len(t, meta.Tables[0].Columns, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
