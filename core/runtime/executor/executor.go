// Package executor runs validated SQL against the target database and
// snapshots the full result set.
package executor

import (
	"context"

	"github.com/querypilot/querypilot/core/domain"
	"github.com/querypilot/querypilot/core/infrastructure/logging"
	"github.com/querypilot/querypilot/core/runtime/connectors"
	apperrors "github.com/querypilot/querypilot/core/shared/errors"
)

// Executor executes statements through the connector manager
type Executor struct {
	manager *connectors.Manager
	log     logging.Logger
}

// NewExecutor creates a new executor
func NewExecutor(manager *connectors.Manager) *Executor {
	return &Executor{
		manager: manager,
		log:     logging.New("executor"),
	}
}

// Execute runs a statement against the given database and fetches all
// rows eagerly. A valid query matching zero rows returns an empty
// result set, not an error. Callers are responsible for validating the
// statement first; the assistant service enforces that ordering.
// Statements run with driver-default auto-commit, no transaction.
func (e *Executor) Execute(ctx context.Context, sqlText, database string) (*domain.ResultSet, error) {
	conn, err := e.manager.Get(ctx, database)
	if err != nil {
		return nil, err
	}

	result, err := conn.Query(ctx, sqlText)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeExecutionFailed,
			"query execution failed", err)
	}

	e.log.Debugf("Executed statement, %d row(s) returned", len(result.Rows))
	return result, nil
}
