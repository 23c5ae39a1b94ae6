package sweepdetector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineValid(t *testing.T) {
	line := "2024-01-01, 00:00:01, 100000000, 102000000, 1000000, 2, -80.0, -82.5"
	parsed, ok := ParseLine(line)
	require.True(t, ok)
	assert.Equal(t, int64(100000000), parsed.HzLow)
	assert.Equal(t, int64(102000000), parsed.HzHigh)
	assert.Equal(t, int64(1000000), parsed.BinWidth)
	require.Len(t, parsed.Bins, 2)
	assert.Equal(t, int64(100500000), parsed.Bins[0].FrequencyHz)
	assert.Equal(t, -80.0, parsed.Bins[0].PowerDB)
	assert.Equal(t, int64(101500000), parsed.Bins[1].FrequencyHz)
}

func TestParseLineBlank(t *testing.T) {
	_, ok := ParseLine("   ")
	assert.False(t, ok)
}

func TestParseLineComment(t *testing.T) {
	_, ok := ParseLine("# this is a comment")
	assert.False(t, ok)
}

func TestParseLineTooFewFields(t *testing.T) {
	_, ok := ParseLine("2024-01-01,00:00:01,100,200,10,2")
	assert.False(t, ok)
}

func TestParseLineNonNumericFieldDropped(t *testing.T) {
	_, ok := ParseLine("2024-01-01,00:00:01,abc,200,10,2,-80")
	assert.False(t, ok)
}

func TestParseLineNonNumericBinDropped(t *testing.T) {
	_, ok := ParseLine("2024-01-01,00:00:01,100,200,10,2,not-a-number")
	assert.False(t, ok)
}
