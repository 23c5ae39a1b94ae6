package bleobserver

// minDwellSamples is the smallest dwell buffer the discriminator accepts
// (spec.md §4.3).
const minDwellSamples = 100

// minSymbols is the smallest symbol count the slicer will hand to the PDU
// recognizer; shorter buffers are treated as a demodulation miss, not an
// error (spec.md §4.3/§7).
const minSymbols = 64

// bleSymbolRateHz is the fixed BLE advertising-channel symbol rate.
const bleSymbolRateHz = 1_000_000

// samplesPerSymbol returns floor(sampleRateHz / 1e6), the integrate-and-dump
// window width.
func samplesPerSymbol(sampleRateHz int) int {
	return sampleRateHz / bleSymbolRateHz
}

// Demodulate FM-discriminates buf and integrate-and-dumps into one bit per
// symbol. It returns (bits, phase, ok); ok is false when buf is too short
// to discriminate or yields fewer than minSymbols symbols (spec.md §4.3).
// phase is the per-sample instantaneous-frequency sequence, kept for the
// PDU recognizer's CFO estimate.
func Demodulate(buf []Sample, sampleRateHz int) (bits []int, phase []float64, ok bool) {
	if len(buf) < minDwellSamples {
		return nil, nil, false
	}

	phase = phaseAdvance(buf)

	s := samplesPerSymbol(sampleRateHz)
	if s <= 0 {
		return nil, nil, false
	}

	usable := (len(phase) / s) * s
	numSymbols := usable / s
	if numSymbols < minSymbols {
		return nil, phase, false
	}

	bits = make([]int, numSymbols)
	for sym := 0; sym < numSymbols; sym++ {
		sum := 0.0
		for i := 0; i < s; i++ {
			sum += phase[sym*s+i]
		}
		avg := sum / float64(s)
		if avg > 0 {
			bits[sym] = 1
		}
	}
	return bits, phase, true
}
