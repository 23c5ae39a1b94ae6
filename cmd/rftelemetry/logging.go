package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/srg/rftelemetry/internal/rfconfig"
)

// defaultCLILevel is what a subcommand logs at when neither --log-level
// nor --verbose is given: info, so hop progress, frontend failures and the
// baseline-learned line reach stderr. The NDJSON observation stream on
// stdout is unaffected by the level.
const defaultCLILevel = logrus.InfoLevel

// loggerForCmd resolves cmd's --log-level (and, failing that, its
// verboseFlagName bool flag) into a logger built the way every processor
// in this repo builds one, via rfconfig.NewLogger.
func loggerForCmd(cmd *cobra.Command, verboseFlagName string) (*logrus.Logger, error) {
	level := defaultCLILevel

	if raw, _ := cmd.Flags().GetString("log-level"); raw != "" {
		parsed, err := rfconfig.ParseLevel(raw)
		if err != nil {
			return nil, err
		}
		level = parsed
	} else if verbose, _ := cmd.Flags().GetBool(verboseFlagName); verbose {
		level = logrus.DebugLevel
	}

	return rfconfig.NewLogger(level), nil
}
