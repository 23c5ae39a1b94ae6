// Package telemetry defines the shared NDJSON observation record emitted
// by both streaming processors and the SHA-256 signature convention used
// to dedupe and identify them.
package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Protocol identifies which processor/shape produced an Observation.
type Protocol string

const (
	ProtocolBLEEnergy         Protocol = "ble-energy"
	ProtocolBLEAdv            Protocol = "ble-adv"
	ProtocolSpectrumAnomaly   Protocol = "spectrum-anomaly"
	ProtocolSpectrumBaseline  Protocol = "spectrum-baseline"
	signatureDomain                    = "rf-telemetry-v1"
)

// Fields is the protocol-specific payload of an Observation. Key order is
// not significant; json.Marshal sorts map keys, which is fine here since
// nothing downstream depends on field order within "fields".
type Fields map[string]any

// Observation is the wire record documented in spec.md §6.
type Observation struct {
	ObservedAt  string   `json:"observedAt"`
	Protocol    Protocol `json:"protocol"`
	FrequencyHz int64    `json:"frequencyHz"`
	RSSI        float64  `json:"rssi"`
	Noise       float64  `json:"noise"`
	SNR         *float64 `json:"snr,omitempty"`
	Modulation  string   `json:"modulation,omitempty"`
	Signature   string   `json:"signature"`
	Fields      Fields   `json:"fields"`
}

// Signature computes hex(SHA-256("rf-telemetry-v1:" + protocol + ":" + keyParts)),
// the construction shared by every protocol per spec.md §6.
func Signature(protocol Protocol, keyParts string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", signatureDomain, protocol, keyParts)))
	return hex.EncodeToString(sum[:])
}

// NowISO returns the current UTC time at second resolution with a
// trailing "Z", the exact format spec.md §3 requires for observedAt.
func NowISO() string {
	return time.Now().UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}

// Round1 rounds to one decimal place, matching the reference's round(x, 1)
// used throughout the dB fields.
func Round1(v float64) float64 {
	return roundTo(v, 1)
}

// Round2 rounds to two decimal places, used for the noise-baseline fields.
func Round2(v float64) float64 {
	return roundTo(v, 2)
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	if v >= 0 {
		return float64(int64(v*scale+0.5)) / scale
	}
	return float64(int64(v*scale-0.5)) / scale
}

// Emitter writes Observations as newline-delimited JSON, one per line,
// flushing immediately. Safe for use from a single goroutine; the BLE and
// sweep pipelines are each single-threaded (spec.md §5), so no locking
// is required for correctness, but a mutex guards against accidental
// concurrent use (e.g. a future diagnostic goroutine sharing the sink).
type Emitter struct {
	mu  sync.Mutex
	w   io.Writer
	enc *json.Encoder
}

// NewEmitter wraps w (typically os.Stdout) as an Observation sink.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w, enc: json.NewEncoder(w)}
}

// Emit writes one Observation as a single NDJSON line.
func (e *Emitter) Emit(obs Observation) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(obs)
}
