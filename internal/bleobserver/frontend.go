package bleobserver

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/srg/rftelemetry/internal/rfconfig"
)

// childRunner executes the SDR capture tool and returns its captured
// stdout. Overridable in tests so the frontend driver can be exercised
// without hackrf_transfer installed.
type childRunner func(ctx context.Context, args []string) ([]byte, error)

// FrontendDriver spawns the SDR capture child process per channel dwell
// and yields a dwell buffer of complex samples (spec.md §4.1).
type FrontendDriver struct {
	cfg    *rfconfig.BLEConfig
	logger *logrus.Logger
	run    childRunner
}

// NewFrontendDriver builds a driver that shells out to the real
// hackrf_transfer binary.
func NewFrontendDriver(cfg *rfconfig.BLEConfig, logger *logrus.Logger) *FrontendDriver {
	return &FrontendDriver{cfg: cfg, logger: logger, run: runChildProcess}
}

// Capture drives one dwell on the given channel. It returns (buf, true)
// on success with exactly cfg.SamplesPerDwell() elements, or (nil, false)
// on any failure: non-zero exit, short read, timeout, or missing
// executable. Capture never panics or returns a Go error — every failure
// path is logged to the diagnostic stream, matching the "Never raises"
// contract of spec.md §4.1.
func (d *FrontendDriver) Capture(ctx context.Context, ch Channel) ([]Sample, bool) {
	samplesPerDwell := d.cfg.SamplesPerDwell()
	bytesNeeded := samplesPerDwell * 2

	args := []string{
		"-r", "-",
		"-f", strconv.FormatInt(ch.FrequencyHz(), 10),
		"-s", strconv.Itoa(d.cfg.SampleRateHz),
		"-l", strconv.Itoa(d.cfg.LNAGainDB),
		"-g", strconv.Itoa(d.cfg.VGAGainDB),
		"-n", strconv.Itoa(bytesNeeded),
	}
	if d.cfg.HackRFSerial != "" {
		args = append(args, "-d", d.cfg.HackRFSerial)
	}

	dctx, cancel := context.WithTimeout(ctx, d.cfg.DwellTimeout())
	defer cancel()

	raw, err := d.run(dctx, args)
	if err != nil {
		if errors.Is(dctx.Err(), context.DeadlineExceeded) {
			d.logger.WithField("channel", ch).Warn("hackrf_transfer timed out")
		} else if errors.Is(err, exec.ErrNotFound) {
			d.logger.WithField("channel", ch).Warn("hackrf_transfer executable not found")
		} else {
			d.logger.WithFields(logrus.Fields{"channel": ch, "error": err}).Warn("hackrf_transfer failed")
		}
		return nil, false
	}

	if len(raw) < bytesNeeded {
		d.logger.WithFields(logrus.Fields{
			"channel": ch, "got": len(raw), "want": bytesNeeded,
		}).Warn("hackrf_transfer short read")
		return nil, false
	}

	return decodeIQ(raw[:bytesNeeded]), true
}

// decodeIQ converts interleaved signed 8-bit I/Q bytes into complex
// samples, each component divided by 128.0 (spec.md §4.1).
func decodeIQ(raw []byte) []Sample {
	n := len(raw) / 2
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		re := float64(int8(raw[2*i])) / 128.0
		im := float64(int8(raw[2*i+1])) / 128.0
		out[i] = complex(re, im)
	}
	return out
}

// runChildProcess invokes hackrf_transfer and captures its stdout,
// mirroring the reference's subprocess.run(capture_output=True, timeout=...).
// The child runs in its own process group so a dwell timeout tears down
// hackrf_transfer and any of its own children together, the same
// guaranteed-release contract internal/ptyio applies to its PTY child.
func runChildProcess(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "hackrf_transfer", args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	return cmd.Output()
}
