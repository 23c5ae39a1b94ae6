package bleobserver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTone(n int, cyclesPerSample float64) []Sample {
	buf := make([]Sample, n)
	phase := 0.0
	for i := range buf {
		buf[i] = complex(math.Cos(phase), math.Sin(phase))
		phase += cyclesPerSample
	}
	return buf
}

func TestDemodulateTooShortBuffer(t *testing.T) {
	_, _, ok := Demodulate(make([]Sample, 10), 4_000_000)
	assert.False(t, ok)
}

func TestDemodulateTooFewSymbols(t *testing.T) {
	// 4 samples/symbol, 100 samples -> 24 symbols < 64 minimum
	buf := makeTone(100, 0.3)
	_, _, ok := Demodulate(buf, 4_000_000)
	assert.False(t, ok)
}

func TestDemodulatePositiveFrequencySlicesToOne(t *testing.T) {
	// 4 samples/symbol, enough samples for >=64 symbols, positive phase advance
	buf := makeTone(4*70, 0.5)
	bits, phase, ok := Demodulate(buf, 4_000_000)
	require.True(t, ok)
	require.NotEmpty(t, phase)
	for _, b := range bits {
		assert.Equal(t, 1, b)
	}
}

func TestDemodulateNegativeFrequencySlicesToZero(t *testing.T) {
	buf := makeTone(4*70, -0.5)
	bits, _, ok := Demodulate(buf, 4_000_000)
	require.True(t, ok)
	for _, b := range bits {
		assert.Equal(t, 0, b)
	}
}

func TestSamplesPerSymbol(t *testing.T) {
	assert.Equal(t, 4, samplesPerSymbol(4_000_000))
	assert.Equal(t, 2, samplesPerSymbol(2_000_000))
}
