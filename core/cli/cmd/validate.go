package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/querypilot/querypilot/core/runtime/sqlcheck"
)

// validateCmd checks a SQL statement offline, without touching the
// database or the model endpoint
var validateCmd = &cobra.Command{
	Use:           "validate [sql]",
	Short:         "Check that a SQL statement parses (reads stdin when no argument)",
	RunE:          runValidate,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	var sqlText string
	if len(args) > 0 {
		sqlText = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlText = string(data)
	}

	kind, err := sqlcheck.Check(strings.TrimSpace(sqlText))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "valid %s statement\n", kind)
	return nil
}
