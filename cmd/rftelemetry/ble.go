package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srg/rftelemetry/internal/bleobserver"
	"github.com/srg/rftelemetry/internal/cliui"
	"github.com/srg/rftelemetry/internal/rfconfig"
)

// bleCmd represents the ble command: runs the BLE Observer pipeline.
var bleCmd = &cobra.Command{
	Use:   "ble",
	Short: "Run the BLE Observer",
	Long: `Run the BLE Observer: hops the three BLE advertising channels
(37/38/39), captures each dwell with hackrf_transfer, demodulates GFSK,
decodes advertising PDUs, and writes one NDJSON observation per line to
stdout until interrupted.`,
	RunE: runBLE,
}

func init() {
	bleCmd.Flags().Bool("verbose", false, "Enable verbose (debug) diagnostic logging")
}

func runBLE(cmd *cobra.Command, args []string) error {
	logger, err := loggerForCmd(cmd, "verbose")
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	cfg := rfconfig.LoadBLEConfig(os.Getenv)
	processor := bleobserver.NewProcessor(cfg, logger, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, cliui.Banner("shutting down BLE observer..."))
		cancel()
	}()

	fmt.Fprintln(os.Stderr, cliui.Banner("BLE observer started (channels 37/38/39, dwell %dms)", cfg.ChannelDwellMs))
	hops := processor.Run(ctx)
	fmt.Fprintln(os.Stderr, cliui.Banner("BLE observer stopped after %d hops", hops))

	return nil
}
