package bleobserver

import (
	"math"

	"github.com/hedzr/go-ringbuf/v2/mpmc"
	"github.com/srg/rftelemetry/internal/telemetry"
)

const powerEpsilon = 1e-12

// EnergyResult holds the computed metrics for one dwell, plus the values
// the PDU recognizer reuses for per-packet RSSI (spec.md §4.2/§4.4).
type EnergyResult struct {
	RSSI       float64
	Noise      float64
	SNR        float64
	PeakPower  float64
	MeanPower  float64
	BurstCount int
}

// toDB converts a linear power value to decibels with an epsilon floor,
// per spec.md §4.2.
func toDB(p float64) float64 {
	return 10 * math.Log10(p+powerEpsilon)
}

// AnalyzeEnergy computes the power statistics and burst count for one
// dwell buffer (spec.md §4.2).
func AnalyzeEnergy(buf []Sample) EnergyResult {
	if len(buf) == 0 {
		return EnergyResult{}
	}

	pw := powerSeries(buf)

	sum, peak := 0.0, pw[0]
	for _, p := range pw {
		sum += p
		if p > peak {
			peak = p
		}
	}
	mean := sum / float64(len(pw))

	threshold := mean * 2
	burstCount := 0
	above := false
	for _, p := range pw {
		isAbove := p > threshold
		if isAbove && !above {
			burstCount++
		}
		above = isAbove
	}

	rssi := toDB(peak)
	noise := toDB(mean)
	snr := rssi - noise
	if snr < 0 {
		snr = 0
	}

	return EnergyResult{
		RSSI:       rssi,
		Noise:      noise,
		SNR:        snr,
		PeakPower:  peak,
		MeanPower:  mean,
		BurstCount: burstCount,
	}
}

// noiseHistoryDepth is how many recent per-channel noise readings the
// diagnostic ring buffer retains, readable through RecentNoise. This is an
// additive diagnostic (SPEC_FULL.md §11) and never affects emitted
// observations; the processor itself does not log the history.
const noiseHistoryDepth = 32

// channelNoiseBaseline is the Welford accumulator for one BLE channel's
// noise floor (spec.md §3/§4.2).
type channelNoiseBaseline struct {
	count   int
	mean    float64
	m2      float64
	history mpmc.RichOverlappedRingBuffer[float64]
}

// NoiseBaseline tracks one Welford accumulator per BLE advertising
// channel.
type NoiseBaseline struct {
	channels map[Channel]*channelNoiseBaseline
}

// NewNoiseBaseline creates an empty per-channel noise baseline tracker.
func NewNoiseBaseline() *NoiseBaseline {
	return &NoiseBaseline{channels: make(map[Channel]*channelNoiseBaseline)}
}

// NoiseBaselineReading is the rounded per-dwell baseline summary of
// spec.md §4.2.
type NoiseBaselineReading struct {
	Baseline  float64
	Stddev    float64
	Deviation float64
}

// Update folds one dwell's noise (in dB) into the channel's Welford
// accumulator and returns the current baseline/stddev/deviation, each
// rounded to two decimals per spec.md §4.2.
func (b *NoiseBaseline) Update(ch Channel, noise float64) NoiseBaselineReading {
	acc, ok := b.channels[ch]
	if !ok {
		acc = &channelNoiseBaseline{history: mpmc.NewOverlappedRingBuffer[float64](noiseHistoryDepth)}
		b.channels[ch] = acc
	}

	acc.count++
	delta := noise - acc.mean
	acc.mean += delta / float64(acc.count)
	delta2 := noise - acc.mean
	acc.m2 += delta * delta2
	_, _ = acc.history.EnqueueM(noise)

	stddev := 0.0
	if acc.count > 1 {
		stddev = math.Sqrt(acc.m2 / float64(acc.count))
	}

	deviation := 0.0
	if stddev > 0 {
		deviation = (noise - acc.mean) / stddev
	}

	return NoiseBaselineReading{
		Baseline:  telemetry.Round2(acc.mean),
		Stddev:    telemetry.Round2(stddev),
		Deviation: telemetry.Round2(deviation),
	}
}

// RecentNoise returns up to the last noiseHistoryDepth raw noise readings
// for a channel, newest last. Nothing in the pipeline calls it; it is an
// accessor for diagnostics.
func (b *NoiseBaseline) RecentNoise(ch Channel) []float64 {
	acc, ok := b.channels[ch]
	if !ok {
		return nil
	}
	out := make([]float64, 0, noiseHistoryDepth)
	for !acc.history.IsEmpty() {
		v, err := acc.history.Dequeue()
		if err != nil {
			break
		}
		out = append(out, v)
	}
	for _, v := range out {
		_, _ = acc.history.EnqueueM(v)
	}
	return out
}
