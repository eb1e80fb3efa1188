package connectors

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/querypilot/querypilot/core/config"
	"github.com/querypilot/querypilot/core/infrastructure/logging"
	apperrors "github.com/querypilot/querypilot/core/shared/errors"
)

// Manager hands out one connector per target database, opening pools on
// demand and memoizing them for the life of the process. The pool is the
// only shared resource between requests; its concurrency discipline is
// delegated to database/sql.
type Manager struct {
	cfg        *config.DatabaseConfig
	connectors map[string]Connector
	mu         sync.RWMutex
}

// NewManager creates a manager for the configured database server
func NewManager(cfg *config.DatabaseConfig) *Manager {
	return &Manager{
		cfg:        cfg,
		connectors: make(map[string]Connector),
	}
}

// Init opens the connector for the configured default database
func (m *Manager) Init(ctx context.Context) error {
	log := logging.New("connectors")
	log.Infof("Connecting to %s at %s:%d (database %q)", m.cfg.Driver, m.cfg.Host, m.cfg.Port, m.cfg.Name)

	_, err := m.Get(ctx, m.cfg.Name)
	return err
}

// Get returns the connector for a database, opening it on first use.
// An empty database name selects the configured default.
func (m *Manager) Get(ctx context.Context, database string) (Connector, error) {
	if database == "" {
		database = m.cfg.Name
	}

	m.mu.RLock()
	conn, exists := m.connectors[database]
	m.mu.RUnlock()
	if exists {
		return conn, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Re-check under the write lock
	if conn, exists := m.connectors[database]; exists {
		return conn, nil
	}

	conn, err := New(m.cfg.Driver, m.cfg.DSNFor(database))
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeConnectionFailed,
			fmt.Sprintf("database %q is unreachable", database), err)
	}

	m.connectors[database] = conn
	return conn, nil
}

// Register installs a connector under a database name, replacing any
// existing one. Init uses it for the default pool; tests use it to
// install stubbed pools.
func (m *Manager) Register(database string, conn Connector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectors[database] = conn
}

// Driver returns the configured driver name ("mysql" or "postgres")
func (m *Manager) Driver() string {
	return m.cfg.Driver
}

// DefaultDatabase returns the configured default database name
func (m *Manager) DefaultDatabase() string {
	return m.cfg.Name
}

// Ping checks the default database connection
func (m *Manager) Ping(ctx context.Context) error {
	conn, err := m.Get(ctx, m.cfg.Name)
	if err != nil {
		return err
	}
	return conn.Ping(ctx)
}

// CloseAll closes all connectors in parallel, collecting all errors
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	open := m.connectors
	m.connectors = make(map[string]Connector)
	m.mu.Unlock()

	if len(open) == 0 {
		return nil
	}

	log := logging.New("connectors")
	log.Debugf("Closing %d connector(s)...", len(open))

	var wg sync.WaitGroup
	errChan := make(chan error, len(open))

	for name, conn := range open {
		wg.Add(1)
		go func(name string, conn Connector) {
			defer wg.Done()
			if err := conn.Close(); err != nil {
				errChan <- fmt.Errorf("connector %q: %w", name, err)
			}
		}(name, conn)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
