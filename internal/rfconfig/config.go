// Package rfconfig builds the per-processor Config records from the
// recognized environment options of spec.md §6. Configuration is read
// once at process entry into an immutable struct and passed into the
// processor instance — no process-wide mutable state, per spec.md §9.
package rfconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
)

// Getenv matches os.Getenv's signature so tests can inject a fake
// environment without mutating the process environment.
type Getenv func(key string) string

// BLEConfig tunes the BLE Observer pipeline (spec.md §6).
type BLEConfig struct {
	HackRFSerial   string        `default:""`
	LNAGainDB      int           `default:"32"`
	VGAGainDB      int           `default:"40"`
	SampleRateHz   int           `default:"4000000"`
	ChannelDwellMs int           `default:"200"`
	DedupWindow    time.Duration `default:"10s"`
}

// SamplesPerDwell is the exact sample count captured per dwell, per
// spec.md §3 ("Length target: sample_rate × dwell_ms / 1000").
func (c BLEConfig) SamplesPerDwell() int {
	return c.SampleRateHz * c.ChannelDwellMs / 1000
}

// DwellTimeout is the per-dwell child-process wait timeout of spec.md §4.1
// ("dwell_ms/1000 + 5 seconds").
func (c BLEConfig) DwellTimeout() time.Duration {
	return time.Duration(c.ChannelDwellMs)*time.Millisecond + 5*time.Second
}

// DefaultBLEConfig returns the struct-tagged defaults with no environment
// overrides applied.
func DefaultBLEConfig() *BLEConfig {
	cfg := &BLEConfig{}
	defaults.SetDefaults(cfg)
	return cfg
}

// LoadBLEConfig builds a BLEConfig from defaults overridden by the
// environment variables named in spec.md §6. Malformed numeric values are
// ignored and the default is kept (environment parsing never aborts
// startup, matching the "no user-facing error records" posture of §7).
func LoadBLEConfig(getenv Getenv) *BLEConfig {
	cfg := DefaultBLEConfig()

	cfg.HackRFSerial = getenv("HACKRF_SERIAL")
	if v, ok := getInt(getenv, "HACKRF_LNA_GAIN"); ok {
		cfg.LNAGainDB = v
	}
	if v, ok := getInt(getenv, "HACKRF_VGA_GAIN"); ok {
		cfg.VGAGainDB = v
	}
	if v, ok := getInt(getenv, "BLE_SAMPLE_RATE"); ok {
		cfg.SampleRateHz = v
	}
	if v, ok := getInt(getenv, "BLE_CHANNEL_DWELL_MS"); ok {
		cfg.ChannelDwellMs = v
	}
	if v, ok := getInt(getenv, "BLE_DEDUP_SECONDS"); ok {
		cfg.DedupWindow = time.Duration(v) * time.Second
	}

	return cfg
}

// SweepConfig tunes the Wideband Anomaly Detector pipeline (spec.md §6).
type SweepConfig struct {
	BaselineSeconds int     `default:"300"`
	AnomalySigma    float64 `default:"3.0"`
	EmitInterval    int     `default:"10"`
	MinStreak       int     `default:"2"`
}

// DefaultSweepConfig returns the struct-tagged defaults with no
// environment overrides applied.
func DefaultSweepConfig() *SweepConfig {
	cfg := &SweepConfig{}
	defaults.SetDefaults(cfg)
	return cfg
}

// LoadSweepConfig builds a SweepConfig from defaults overridden by the
// environment variables named in spec.md §6.
func LoadSweepConfig(getenv Getenv) *SweepConfig {
	cfg := DefaultSweepConfig()

	if v, ok := getInt(getenv, "SWEEP_BASELINE_SECONDS"); ok {
		cfg.BaselineSeconds = v
	}
	if v, ok := getFloat(getenv, "SWEEP_ANOMALY_SIGMA"); ok {
		cfg.AnomalySigma = v
	}
	if v, ok := getInt(getenv, "SWEEP_EMIT_INTERVAL"); ok {
		cfg.EmitInterval = v
	}
	if v, ok := getInt(getenv, "SWEEP_MIN_STREAK"); ok {
		cfg.MinStreak = v
	}

	return cfg
}

func getInt(getenv Getenv, key string) (int, bool) {
	raw := getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getFloat(getenv Getenv, key string) (float64, bool) {
	raw := getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NewLogger builds a logrus.Logger at the given level with the RFC3339
// text formatter used throughout the diagnostic stream, matching the
// teacher's pkg/config.Config.NewLogger.
func NewLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger
}

// ParseLevel wraps logrus.ParseLevel with the error message shape the CLI
// layer expects.
func ParseLevel(s string) (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s)
	}
	return lvl, nil
}
