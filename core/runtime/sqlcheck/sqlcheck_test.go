package sqlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/querypilot/querypilot/core/shared/errors"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name         string
		sql          string
		expectValid  bool
		expectedKind string
	}{
		{
			name:         "canonical select",
			sql:          "SELECT 1",
			expectValid:  true,
			expectedKind: "SELECT",
		},
		{
			name:         "select with trailing semicolon",
			sql:          "SELECT 1;",
			expectValid:  true,
			expectedKind: "SELECT",
		},
		{
			name:         "select with joins and grouping",
			sql:          "SELECT u.name, COUNT(o.id) FROM users u JOIN orders o ON o.user_id = u.id GROUP BY u.name ORDER BY 2 DESC",
			expectValid:  true,
			expectedKind: "SELECT",
		},
		{
			name:         "insert statement",
			sql:          "INSERT INTO users (name) VALUES ('ada')",
			expectValid:  true,
			expectedKind: "INSERT",
		},
		{
			name:         "update statement",
			sql:          "UPDATE users SET name = 'ada' WHERE id = 1",
			expectValid:  true,
			expectedKind: "UPDATE",
		},
		{
			name:         "delete statement",
			sql:          "DELETE FROM users WHERE id = 1",
			expectValid:  true,
			expectedKind: "DELETE",
		},
		{
			name:        "misspelled keyword",
			sql:         "SELEC * FROM x",
			expectValid: false,
		},
		{
			name:        "empty string",
			sql:         "",
			expectValid: false,
		},
		{
			name:        "whitespace only",
			sql:         "   \n\t",
			expectValid: false,
		},
		{
			name:        "plain prose",
			sql:         "give me all the users please",
			expectValid: false,
		},
		{
			name:        "two statements",
			sql:         "SELECT 1; SELECT 2",
			expectValid: false,
		},
		{
			name:        "dangling where",
			sql:         "SELECT * FROM users WHERE",
			expectValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := Check(tt.sql)
			if tt.expectValid {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedKind, kind)
			} else {
				require.Error(t, err)
				assert.True(t, apperrors.IsSyntaxError(err), "expected a syntax error, got %v", err)
				assert.Empty(t, kind)
			}
		})
	}
}

func TestPosition(t *testing.T) {
	_, err := Check("SELEC * FROM x")
	require.Error(t, err)
	assert.Greater(t, Position(err), 0, "parser errors should carry the token position")

	assert.Equal(t, 0, Position(nil))

	_, err = Check("")
	require.Error(t, err)
	assert.Equal(t, 0, Position(err), "empty statement has no position to report")
}
