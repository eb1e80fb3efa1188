// Package sqlcheck confirms that a string parses as a single SQL
// statement before it is allowed anywhere near the executor. The check
// is purely syntactic; column and table references are not resolved.
package sqlcheck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"

	apperrors "github.com/querypilot/querypilot/core/shared/errors"
)

var positionRegex = regexp.MustCompile(`at position (\d+)`)

// Check parses a SQL string and returns the statement kind
// (SELECT, INSERT, ...). It returns a SYNTAX_ERROR carrying the
// offending token position when the string is not a single well-formed
// statement. Side-effect-free.
func Check(sql string) (string, error) {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return "", apperrors.NewAppError(apperrors.ErrCodeSyntaxError, "empty statement", nil)
	}

	pieces, err := sqlparser.SplitStatementToPieces(trimmed)
	if err != nil {
		return "", syntaxError(err)
	}
	if countStatements(pieces) > 1 {
		return "", apperrors.NewAppError(apperrors.ErrCodeSyntaxError,
			"expected a single statement", nil)
	}

	if _, err := sqlparser.Parse(trimmed); err != nil {
		return "", syntaxError(err)
	}

	return sqlparser.StmtType(sqlparser.Preview(trimmed)), nil
}

// Position extracts the token position from a syntax error message.
// Returns 0 when the parser did not report one.
func Position(err error) int {
	if err == nil {
		return 0
	}
	if m := positionRegex.FindStringSubmatch(err.Error()); m != nil {
		if pos, convErr := strconv.Atoi(m[1]); convErr == nil {
			return pos
		}
	}
	return 0
}

func syntaxError(err error) error {
	return apperrors.NewAppError(apperrors.ErrCodeSyntaxError,
		fmt.Sprintf("invalid SQL: %v", err), err)
}

func countStatements(pieces []string) int {
	n := 0
	for _, piece := range pieces {
		if strings.TrimSpace(piece) != "" {
			n++
		}
	}
	return n
}
