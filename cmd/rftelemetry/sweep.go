package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srg/rftelemetry/internal/cliui"
	"github.com/srg/rftelemetry/internal/rfconfig"
	"github.com/srg/rftelemetry/internal/sweepdetector"
)

var sweepInputPath string

// sweepCmd represents the sweep command: runs the Wideband Anomaly
// Detector pipeline.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the Wideband Anomaly Detector",
	Long: `Run the Wideband Anomaly Detector: consumes a power-vs-frequency
sweep as CSV (from stdin by default), learns a per-bin baseline online,
and writes one NDJSON observation per line to stdout for every
statistically significant deviation and periodic band baseline.`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().Bool("verbose", false, "Enable verbose (debug) diagnostic logging")
	sweepCmd.Flags().StringVar(&sweepInputPath, "input", "", "Read sweep CSV from this file instead of stdin")
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger, err := loggerForCmd(cmd, "verbose")
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	input := os.Stdin
	if sweepInputPath != "" {
		f, err := os.Open(sweepInputPath)
		if err != nil {
			return fmt.Errorf("opening sweep input: %w", err)
		}
		defer f.Close()
		input = f
	}

	cfg := rfconfig.LoadSweepConfig(os.Getenv)
	processor := sweepdetector.NewProcessor(cfg, logger, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, cliui.Banner("shutting down sweep detector..."))
		cancel()
	}()

	fmt.Fprintln(os.Stderr, cliui.Banner("sweep detector started (baseline %ds, emit every %d cycles)", cfg.BaselineSeconds, cfg.EmitInterval))
	lines := processor.Run(ctx, input)
	fmt.Fprintln(os.Stderr, cliui.Banner("sweep detector stopped after %d lines", lines))

	return nil
}
