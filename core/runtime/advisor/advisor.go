// Package advisor asks the model for plain-English explanations and
// indexing suggestions. The returned text is passed through unchanged;
// nothing verifies the suggestions are correct.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/querypilot/querypilot/core/infrastructure/logging"
	"github.com/querypilot/querypilot/core/llm"
	"github.com/querypilot/querypilot/core/runtime/connectors"
)

// Advisor produces explanations and optimization suggestions for SQL
// statements
type Advisor struct {
	client  llm.Client
	manager *connectors.Manager
	log     logging.Logger
}

// NewAdvisor creates a new advisor
func NewAdvisor(client llm.Client, manager *connectors.Manager) *Advisor {
	return &Advisor{
		client:  client,
		manager: manager,
		log:     logging.New("advisor"),
	}
}

// Explain returns a plain-English breakdown of what the statement does
func (a *Advisor) Explain(ctx context.Context, sqlText string) (string, error) {
	text, err := a.client.Complete(ctx, explainSystemPrompt,
		fmt.Sprintf(explainUserTemplate, sqlText),
		llm.Options{Temperature: 0.3, MaxTokens: 512})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Optimize returns indexing suggestions for the statement. The database
// execution plan is included in the prompt when it can be fetched; plan
// retrieval is best-effort and its failure only degrades the prompt.
func (a *Advisor) Optimize(ctx context.Context, sqlText, database string) (string, error) {
	plan := a.executionPlan(ctx, sqlText, database)

	text, err := a.client.Complete(ctx, optimizeSystemPrompt,
		fmt.Sprintf(optimizeUserTemplate, sqlText, plan),
		llm.Options{Temperature: 0.2, MaxTokens: 512})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// executionPlan fetches EXPLAIN output for the statement, formatted one
// row per line
func (a *Advisor) executionPlan(ctx context.Context, sqlText, database string) string {
	conn, err := a.manager.Get(ctx, database)
	if err != nil {
		a.log.Warnf("Skipping execution plan: %v", err)
		return "No execution plan available"
	}

	result, err := conn.Query(ctx, "EXPLAIN "+sqlText)
	if err != nil {
		a.log.Warnf("Could not fetch execution plan: %v", err)
		return "No execution plan available"
	}

	var b strings.Builder
	b.WriteString(strings.Join(result.Columns, " | "))
	for _, row := range result.Rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = fmt.Sprintf("%v", v)
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(parts, " | "))
	}
	return b.String()
}
