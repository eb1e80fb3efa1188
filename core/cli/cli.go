package cli

import (
	"github.com/querypilot/querypilot/core/cli/cmd"
	"github.com/querypilot/querypilot/core/infrastructure/logging"
)

// Execute runs the CLI
func Execute() error {
	if err := cmd.Execute(); err != nil {
		logging.New("cli").Error(err.Error())
		return err
	}
	return nil
}
