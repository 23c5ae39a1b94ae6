package sweepdetector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinStatsWelfordNLessThan2(t *testing.T) {
	b := NewBinStats()
	b.Update(10)
	assert.Equal(t, 0.0, b.Stddev())
	assert.Equal(t, 0.0, b.DeviationSigma(10))
}

func TestBinStatsNotPromotedBelowThreeSamples(t *testing.T) {
	b := NewBinStats()
	b.Update(10)
	b.Update(11)
	b.FinalizeLearning()
	assert.True(t, b.IsLearning())
}

func TestBinStatsPromotedAtThreeSamples(t *testing.T) {
	b := NewBinStats()
	b.Update(10)
	b.Update(10)
	b.Update(10)
	b.FinalizeLearning()
	assert.False(t, b.IsLearning())
	assert.GreaterOrEqual(t, b.Stddev()*b.Stddev(), minEMAVariance-1e-9)
}

func TestBinStatsFinalizeLearningFloorsVariance(t *testing.T) {
	b := NewBinStats()
	b.Update(10)
	b.Update(10)
	b.Update(10)
	b.FinalizeLearning()
	assert.InDelta(t, math.Sqrt(minEMAVariance), b.Stddev(), 1e-9)
}

func TestBinStatsEMATracksTowardNewValue(t *testing.T) {
	b := NewBinStats()
	for i := 0; i < 5; i++ {
		b.Update(10)
	}
	b.FinalizeLearning()
	assert.False(t, b.IsLearning())

	before := b.CurrentMean()
	b.Update(20)
	after := b.CurrentMean()
	assert.Greater(t, after, before)
}

func TestBinStatsS5AnomalyScenario(t *testing.T) {
	b := NewBinStats()
	for i := 0; i < 5; i++ {
		b.Update(10)
	}
	b.FinalizeLearning()
	assert.InDelta(t, math.Sqrt(0.1), b.Stddev(), 1e-9)

	sigma := b.DeviationSigma(20)
	expected := (20.0 - b.CurrentMean()) / math.Sqrt(0.1)
	assert.InDelta(t, expected, sigma, 1e-6)
}
