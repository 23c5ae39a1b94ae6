package sweepdetector

import "math"

// hysteresisState is the per-bin consecutive-anomaly tracking of
// spec.md §3/§4.9. Both fields clear together only when sigma returns
// within threshold — not when polarity flips, so a bin oscillating
// between large positive and large negative deviations keeps
// accumulating streak (spec.md §9).
type hysteresisState struct {
	streak   int
	emitted  bool
}

// Anomaly is one detected spectrum-anomaly event (spec.md §6).
type Anomaly struct {
	FrequencyHz    int64
	MeasuredPower  float64
	BaselinePower  float64
	DeviationSigma float64
	AnomalyType    string
}

// AnomalyDetector applies the sigma threshold and streak hysteresis of
// spec.md §4.9 across bins.
type AnomalyDetector struct {
	sigmaThreshold float64
	minStreak      int
	states         map[int64]*hysteresisState
}

// NewAnomalyDetector builds a detector with the given threshold and
// minimum consecutive-hit streak.
func NewAnomalyDetector(sigmaThreshold float64, minStreak int) *AnomalyDetector {
	return &AnomalyDetector{
		sigmaThreshold: sigmaThreshold,
		minStreak:      minStreak,
		states:         make(map[int64]*hysteresisState),
	}
}

// Check evaluates one bin reading against its baseline and returns
// (anomaly, true) exactly on the minStreak-th consecutive hit — not
// earlier, and not again on the (minStreak+1)-th same-polarity hit
// (spec.md §8 boundary behavior). The streak tests |sigma|, not raw
// sigma, so a bin oscillating between large positive and large negative
// deviations keeps accumulating streak across the polarity flip
// (spec.md §9); the emitted deviationSigma is likewise the magnitude,
// matching the "deviationSigma > anomaly_sigma_threshold" invariant for
// both power-spike and power-drop events.
func (d *AnomalyDetector) Check(freqHz int64, powerDB float64, stats *BinStats) (Anomaly, bool) {
	sigma := stats.DeviationSigma(powerDB)
	magnitude := math.Abs(sigma)

	state, ok := d.states[freqHz]
	if !ok {
		state = &hysteresisState{}
		d.states[freqHz] = state
	}

	if magnitude <= d.sigmaThreshold {
		state.streak = 0
		state.emitted = false
		return Anomaly{}, false
	}

	state.streak++
	if state.streak < d.minStreak || state.emitted {
		return Anomaly{}, false
	}

	state.emitted = true
	anomalyType := "power-drop"
	baseline := stats.CurrentMean()
	if powerDB > baseline {
		anomalyType = "power-spike"
	}

	return Anomaly{
		FrequencyHz:    freqHz,
		MeasuredPower:  powerDB,
		BaselinePower:  baseline,
		DeviationSigma: magnitude,
		AnomalyType:    anomalyType,
	}, true
}
