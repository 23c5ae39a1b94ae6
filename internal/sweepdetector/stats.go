package sweepdetector

import "math"

// minLearningSamples is the smallest learning-phase sample count a bin
// needs before finalize_learning() promotes it to TRACKING (spec.md §4.8).
const minLearningSamples = 3

// emaDecay is the EMA smoothing factor applied once a bin is TRACKING.
const emaDecay = 0.01

// minEMAVariance is the floor finalize_learning() applies to ema_var
// (spec.md §3, §4.8 invariant).
const minEMAVariance = 0.1

// minDeviationStddev is the stddev floor below which deviation sigma
// reports 0 rather than dividing by a near-zero value (spec.md §4.8).
const minDeviationStddev = 0.01

// BinStats is the per-bin Welford/EMA accumulator of spec.md §3/§4.8.
//
// learning is a per-bin flag, not a processor-wide one: a bin that never
// accumulates minLearningSamples readings before the processor's global
// baseline window closes is simply never promoted and keeps Welford-
// learning indefinitely, even though the processor has moved on to
// TRACKING for every other bin. This mirrors the reference's behavior and
// is deliberately preserved rather than "fixed".
type BinStats struct {
	learning bool

	count int
	mean  float64
	m2    float64

	emaMean float64
	emaVar  float64
}

// NewBinStats creates a bin accumulator in the LEARNING state.
func NewBinStats() *BinStats {
	return &BinStats{learning: true}
}

// IsLearning reports whether this bin is still in the LEARNING state.
func (b *BinStats) IsLearning() bool {
	return b.learning
}

// Count is the number of LEARNING-phase samples folded so far.
func (b *BinStats) Count() int {
	return b.count
}

// Update folds one observation into the bin, routing to Welford learning
// or EMA tracking depending on this bin's own learning state.
func (b *BinStats) Update(value float64) {
	if b.learning {
		b.count++
		delta := value - b.mean
		b.mean += delta / float64(b.count)
		delta2 := value - b.mean
		b.m2 += delta * delta2
		return
	}
	delta := value - b.emaMean
	b.emaMean += emaDecay * delta
	b.emaVar = (1 - emaDecay) * (b.emaVar + emaDecay*delta*delta)
}

// FinalizeLearning promotes a bin with at least minLearningSamples
// LEARNING observations into TRACKING: ema_mean = welford mean,
// ema_var = max(sample variance, 0.1), learning = false. Bins with fewer
// than 3 samples are left in LEARNING and never promoted (spec.md §3).
func (b *BinStats) FinalizeLearning() {
	if b.count < minLearningSamples {
		return
	}
	b.emaMean = b.mean
	b.emaVar = math.Max(b.variance(), minEMAVariance)
	b.learning = false
}

func (b *BinStats) variance() float64 {
	if b.count < 2 {
		return 0
	}
	return b.m2 / float64(b.count-1)
}

// CurrentMean returns the Welford mean while LEARNING, the EMA mean once
// TRACKING.
func (b *BinStats) CurrentMean() float64 {
	if b.learning {
		return b.mean
	}
	return b.emaMean
}

// Stddev returns sqrt(variance) or sqrt(ema_var) depending on phase, 0 if
// that quantity is non-positive.
func (b *BinStats) Stddev() float64 {
	v := b.variance()
	if !b.learning {
		v = b.emaVar
	}
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// DeviationSigma returns (value - CurrentMean()) / Stddev(), or 0 when
// Stddev() is below minDeviationStddev (spec.md §4.8).
func (b *BinStats) DeviationSigma(value float64) float64 {
	sd := b.Stddev()
	if sd < minDeviationStddev {
		return 0
	}
	return (value - b.CurrentMean()) / sd
}
