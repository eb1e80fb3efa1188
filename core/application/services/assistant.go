// Package services wires the runtime components into the operations the
// transports expose. Handlers talk to these services only.
package services

import (
	"context"

	"github.com/querypilot/querypilot/core/domain"
	"github.com/querypilot/querypilot/core/infrastructure/logging"
	"github.com/querypilot/querypilot/core/runtime/sqlcheck"
)

// Generator produces SQL from a natural-language question
type Generator interface {
	Generate(ctx context.Context, question, database string) (*domain.GeneratedSQL, error)
}

// Executor runs a statement and snapshots its rows
type Executor interface {
	Execute(ctx context.Context, sqlText, database string) (*domain.ResultSet, error)
}

// Advisor produces explanations and index suggestions
type Advisor interface {
	Explain(ctx context.Context, sqlText string) (string, error)
	Optimize(ctx context.Context, sqlText, database string) (string, error)
}

// CombinedResult is the output of the generate-and-execute flow
type CombinedResult struct {
	SQL         string           `json:"sql"`
	Result      domain.ResultSet `json:"result"`
	Suggestions string           `json:"suggestions,omitempty"`
}

// Assistant orchestrates the NL→SQL pipeline. Generated SQL always
// passes the syntax checker before the executor sees it.
type Assistant struct {
	generator Generator
	executor  Executor
	advisor   Advisor
	check     func(string) (string, error)
	log       logging.Logger
}

// NewAssistant creates the assistant service
func NewAssistant(generator Generator, executor Executor, advisor Advisor) *Assistant {
	return &Assistant{
		generator: generator,
		executor:  executor,
		advisor:   advisor,
		check:     sqlcheck.Check,
		log:       logging.New("assistant"),
	}
}

// Generate produces SQL for a question without executing it
func (s *Assistant) Generate(ctx context.Context, question, database string) (*domain.GeneratedSQL, error) {
	return s.generator.Generate(ctx, question, database)
}

// ExecuteChecked validates a statement and runs it. The syntax check
// happens here so no caller can reach the executor with an unparsed
// string.
func (s *Assistant) ExecuteChecked(ctx context.Context, sqlText, database string) (*domain.ResultSet, error) {
	if _, err := s.check(sqlText); err != nil {
		return nil, err
	}
	return s.executor.Execute(ctx, sqlText, database)
}

// GenerateAndExecute runs the full pipeline: generate, validate,
// execute, then ask for index suggestions. Suggestion failure degrades
// to an empty string and never rolls back the executed result.
func (s *Assistant) GenerateAndExecute(ctx context.Context, question, database string) (*CombinedResult, error) {
	generated, err := s.generator.Generate(ctx, question, database)
	if err != nil {
		return nil, err
	}

	result, err := s.ExecuteChecked(ctx, generated.SQL, database)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.advisor.Optimize(ctx, generated.SQL, database)
	if err != nil {
		s.log.Warnf("Optimization suggestion failed: %v", err)
		suggestions = ""
	}

	return &CombinedResult{
		SQL:         generated.SQL,
		Result:      *result,
		Suggestions: suggestions,
	}, nil
}
