// Package generate turns natural-language questions into SQL statements
// by grounding a completion prompt in the live schema snapshot.
package generate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/querypilot/querypilot/core/domain"
	"github.com/querypilot/querypilot/core/infrastructure/logging"
	"github.com/querypilot/querypilot/core/llm"
	"github.com/querypilot/querypilot/core/runtime/schema"
	apperrors "github.com/querypilot/querypilot/core/shared/errors"
)

var (
	fenceRegex     = regexp.MustCompile("(?s)```(?:sql)?\\s*(.*?)\\s*```")
	selectRegex    = regexp.MustCompile(`(?is)\bSELECT\b.*?;`)
	statementRegex = regexp.MustCompile(`(?i)^(SELECT|INSERT|UPDATE|DELETE|WITH|SHOW|DESCRIBE|EXPLAIN)\b`)
)

// Generator builds prompts from schema snapshots and extracts SQL from
// model responses
type Generator struct {
	client    llm.Client
	discovery *schema.Discovery
	log       logging.Logger
}

// NewGenerator creates a new SQL generator
func NewGenerator(client llm.Client, discovery *schema.Discovery) *Generator {
	return &Generator{
		client:    client,
		discovery: discovery,
		log:       logging.New("generate"),
	}
}

// Generate converts a natural-language question into a SQL statement
// for the given database
func (g *Generator) Generate(ctx context.Context, question, database string) (*domain.GeneratedSQL, error) {
	meta, err := g.discovery.Snapshot(ctx, database)
	if err != nil {
		return nil, err
	}

	raw, err := g.client.Complete(ctx, systemPrompt,
		fmt.Sprintf(userPromptTemplate, schema.Format(meta), question),
		llm.Options{Temperature: 0.1, MaxTokens: 1024, TopP: 0.95})
	if err != nil {
		return nil, err
	}

	sql, err := ExtractSQL(raw)
	if err != nil {
		return nil, err
	}

	g.log.Debugf("Generated SQL for %q: %s", question, sql)
	return &domain.GeneratedSQL{SQL: sql, Question: question}, nil
}

// ExtractSQL pulls a single SQL statement out of a model response,
// stripping markdown fences and surrounding prose. Returns an
// LLM_MALFORMED_RESPONSE error when no SQL-like text remains.
func ExtractSQL(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)

	if m := fenceRegex.FindStringSubmatch(cleaned); m != nil {
		cleaned = strings.TrimSpace(m[1])
	}

	// Models sometimes wrap the statement in an explanation; prefer the
	// first complete SELECT when one is present.
	if m := selectRegex.FindString(cleaned); m != "" {
		cleaned = strings.TrimSpace(m)
	}

	if cleaned == "" || !statementRegex.MatchString(cleaned) {
		return "", apperrors.NewAppError(apperrors.ErrCodeLLMMalformed,
			"model response contained no SQL statement", nil)
	}

	return cleaned, nil
}
