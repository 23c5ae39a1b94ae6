package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode"

	"github.com/spf13/cobra"
)

// Set via -ldflags at release build time; "dev"/"none"/"unknown" mark an
// unreleased binary.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildVersion renders the --version string: a 'v'-prefixed semver plus,
// once a release actually stamps commit/date in, a "(commit, date)" suffix.
func buildVersion() string {
	v := version
	if len(v) > 0 && unicode.IsDigit(rune(v[0])) {
		v = "v" + v
	}
	if commit == "none" && date == "unknown" {
		return v
	}
	return fmt.Sprintf("%s (%s, %s)", v, commit, date)
}

var rootCmd = &cobra.Command{
	Use:   "rftelemetry",
	Short: "SDR telemetry pipeline: BLE observer and wideband anomaly detector",
	Long: `rftelemetry turns raw SDR capture into a stream of newline-delimited
JSON observations:

- ble   hops the three BLE advertising channels, demodulates GFSK,
        decodes advertising PDUs, and reports per-channel energy and
        per-device advertising records.
- sweep consumes a power-vs-frequency sweep as CSV and reports
        per-band baselines and statistically significant deviations.`,
}

func main() {
	rootCmd.Version = buildVersion()

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, formatCLIError(err))
		os.Exit(1)
	}
}

// formatCLIError prefixes the binary name onto a user-facing error line.
func formatCLIError(err error) string {
	return "rftelemetry: " + FormatUserError(err)
}

func init() {
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(bleCmd)
	rootCmd.AddCommand(sweepCmd)

	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.Flags().BoolP("version", "v", false, "print version and exit")
}
