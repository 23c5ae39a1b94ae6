package sweepdetector

import (
	"fmt"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// namedBand is one entry in the fixed named-band table of spec.md §4.10.
type namedBand struct {
	Name  string
	LowHz int64
	HighHz int64
}

// namedBands is the fixed table of recognized frequency bands.
var namedBands = []namedBand{
	{"ISM 315M", 300_000_000, 330_000_000},
	{"ISM 433M", 420_000_000, 450_000_000},
	{"ISM 868M", 863_000_000, 870_000_000},
	{"ISM 915M", 902_000_000, 928_000_000},
	{"GPS L1", 1_565_000_000, 1_585_000_000},
	{"WiFi 2.4G", 2_400_000_000, 2_500_000_000},
	{"ISM 5.8G", 5_725_000_000, 5_875_000_000},
}

// BandName maps a frequency to its named band, or a generic "<mhz>M"/
// "<g.g>G" label when it falls outside every named band (spec.md §4.10).
func BandName(freqHz int64) string {
	for _, b := range namedBands {
		if freqHz >= b.LowHz && freqHz <= b.HighHz {
			return b.Name
		}
	}
	mhz := int64(math.Round(float64(freqHz) / 1e6))
	if mhz >= 1000 {
		return fmt.Sprintf("%.1fG", float64(mhz)/1000)
	}
	return fmt.Sprintf("%dM", mhz)
}

// bandRepresentativeFreq returns the named band's midpoint, or 0 for a
// generic label (spec.md §4.10).
func bandRepresentativeFreq(band string) int64 {
	for _, b := range namedBands {
		if b.Name == band {
			return (b.LowHz + b.HighHz) / 2
		}
	}
	return 0
}

// BandSummary is one per-band aggregated baseline (spec.md §6).
type BandSummary struct {
	Band     string
	FreqHz   int64
	Mean     float64
	Min      float64
	Max      float64
	Std      float64
	BinCount int
}

// SummarizeBands aggregates current_mean across every bin with at least
// minLearningSamples observations, grouped by band, in ascending-
// frequency-of-first-appearance order (spec.md §4.10). bins must be keyed
// by bin center frequency and supplied in ascending frequency order.
func SummarizeBands(orderedFreqs []int64, bins map[int64]*BinStats) []BandSummary {
	powers := orderedmap.New[string, []float64]()

	for _, freq := range orderedFreqs {
		stats := bins[freq]
		if stats == nil || stats.Count() < minLearningSamples {
			continue
		}
		band := BandName(freq)
		existing, ok := powers.Get(band)
		if !ok {
			existing = nil
		}
		powers.Set(band, append(existing, stats.CurrentMean()))
	}

	var out []BandSummary
	for pair := powers.Oldest(); pair != nil; pair = pair.Next() {
		values := pair.Value
		if len(values) == 0 {
			continue
		}
		out = append(out, BandSummary{
			Band:     pair.Key,
			FreqHz:   bandRepresentativeFreq(pair.Key),
			Mean:     meanOf(values),
			Min:      minOf(values),
			Max:      maxOf(values),
			Std:      stddevOf(values),
			BinCount: len(values),
		})
	}
	return out
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

func stddevOf(values []float64) float64 {
	mean := meanOf(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
