package bleobserver

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/srg/rftelemetry/internal/rfconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDriver(t *testing.T, run childRunner) *FrontendDriver {
	t.Helper()
	cfg := &rfconfig.BLEConfig{SampleRateHz: 10, ChannelDwellMs: 100}
	logger := logrus.New()
	logger.SetOutput(testLogWriter{})
	return &FrontendDriver{cfg: cfg, logger: logger, run: run}
}

type testLogWriter struct{}

func (testLogWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestCaptureSuccess(t *testing.T) {
	// SampleRateHz=10, ChannelDwellMs=100 -> 1 sample per dwell -> 2 bytes
	raw := []byte{64, 64} // 64/128 = 0.5
	d := testDriver(t, func(ctx context.Context, args []string) ([]byte, error) {
		return raw, nil
	})

	buf, ok := d.Capture(context.Background(), Channel37)
	require.True(t, ok)
	require.Len(t, buf, 1)
	assert.InDelta(t, 0.5, real(buf[0]), 1e-9)
	assert.InDelta(t, 0.5, imag(buf[0]), 1e-9)
}

func TestCaptureShortRead(t *testing.T) {
	d := testDriver(t, func(ctx context.Context, args []string) ([]byte, error) {
		return []byte{1}, nil // want 2 bytes
	})

	_, ok := d.Capture(context.Background(), Channel37)
	assert.False(t, ok)
}

func TestCaptureNonZeroExit(t *testing.T) {
	d := testDriver(t, func(ctx context.Context, args []string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	})

	_, ok := d.Capture(context.Background(), Channel37)
	assert.False(t, ok)
}

func TestCaptureExecutableNotFound(t *testing.T) {
	d := testDriver(t, func(ctx context.Context, args []string) ([]byte, error) {
		return nil, exec.ErrNotFound
	})

	_, ok := d.Capture(context.Background(), Channel37)
	assert.False(t, ok)
}

func TestCaptureIncludesSerialFlagWhenSet(t *testing.T) {
	var seenArgs []string
	cfg := &rfconfig.BLEConfig{SampleRateHz: 10, ChannelDwellMs: 100, HackRFSerial: "abc123"}
	d := &FrontendDriver{cfg: cfg, logger: logrus.New(), run: func(ctx context.Context, args []string) ([]byte, error) {
		seenArgs = args
		return []byte{0, 0}, nil
	}}

	_, ok := d.Capture(context.Background(), Channel38)
	require.True(t, ok)
	assert.Contains(t, seenArgs, "-d")
	assert.Contains(t, seenArgs, "abc123")
}

func TestDecodeIQ(t *testing.T) {
	buf := decodeIQ([]byte{128, 0, 64, 192}) // -128/128=-1, 0/128=0, 64/128=0.5, -64/128=-0.5
	require.Len(t, buf, 2)
	assert.InDelta(t, -1.0, real(buf[0]), 1e-9)
	assert.InDelta(t, 0.0, imag(buf[0]), 1e-9)
	assert.InDelta(t, 0.5, real(buf[1]), 1e-9)
	assert.InDelta(t, -0.5, imag(buf[1]), 1e-9)
}
