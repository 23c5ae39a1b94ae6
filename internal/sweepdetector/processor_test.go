package sweepdetector

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/rftelemetry/internal/rfconfig"
)

func newTestSweepProcessor(baselineSeconds int) (*Processor, *bytes.Buffer) {
	cfg := &rfconfig.SweepConfig{
		BaselineSeconds: baselineSeconds,
		AnomalySigma:    3.0,
		EmitInterval:    2,
		MinStreak:       2,
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	var out bytes.Buffer
	return NewProcessor(cfg, logger, &out), &out
}

func readSweepObservations(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()
	var obs []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(out.Bytes()))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		obs = append(obs, m)
	}
	return obs
}

func TestProcessorParsesLinesDuringLearning(t *testing.T) {
	p, out := newTestSweepProcessor(300)
	line := "2024-01-01, 00:00:00, 900000000, 902000000, 1000000, 2, 10.0, 10.0"
	n := p.Run(context.Background(), strings.NewReader(line+"\n"))
	assert.Equal(t, 1, n)
	assert.Empty(t, readSweepObservations(t, out))
}

func TestProcessorS5AnomalyScenario(t *testing.T) {
	p, out := newTestSweepProcessor(300)

	for i := 0; i < 5; i++ {
		p.handleLine(SweepLine{
			HzLow: 900_000_000, HzHigh: 902_000_000, BinWidth: 1_000_000,
			Bins: []Bin{{FrequencyHz: 900_500_000, PowerDB: 10.0}},
		})
	}
	p.finalizeLearning()

	p.handleLine(SweepLine{
		HzLow: 900_000_000, HzHigh: 902_000_000, BinWidth: 1_000_000,
		Bins: []Bin{{FrequencyHz: 900_500_000, PowerDB: 20.0}},
	})
	assert.Empty(t, readSweepObservations(t, out))

	p.handleLine(SweepLine{
		HzLow: 900_000_000, HzHigh: 902_000_000, BinWidth: 1_000_000,
		Bins: []Bin{{FrequencyHz: 900_500_000, PowerDB: 20.0}},
	})

	observations := readSweepObservations(t, out)
	require.Len(t, observations, 1)
	assert.Equal(t, "spectrum-anomaly", observations[0]["protocol"])
	fields := observations[0]["fields"].(map[string]any)
	assert.Equal(t, "power-spike", fields["anomalyType"])
	assert.InDelta(t, 1_000_000.0, fields["binWidthHz"], 1e-9)
}

func TestProcessorEmitsBaselineEveryEmitInterval(t *testing.T) {
	p, out := newTestSweepProcessor(300)
	for i := 0; i < 3; i++ {
		p.handleLine(SweepLine{
			HzLow: 900_000_000, HzHigh: 902_000_000, BinWidth: 1_000_000,
			Bins: []Bin{{FrequencyHz: 900_500_000, PowerDB: -70.0}},
		})
	}
	p.finalizeLearning()

	cycle := SweepLine{
		HzLow: 5_000_000, HzHigh: 6_000_000, BinWidth: 1_000_000,
		Bins: []Bin{{FrequencyHz: 5_500_000, PowerDB: -90.0}},
	}
	p.handleLine(cycle)
	assert.Empty(t, readSweepObservations(t, out))

	p.handleLine(cycle)
	observations := readSweepObservations(t, out)
	require.NotEmpty(t, observations)
	found := false
	for _, obs := range observations {
		if obs["protocol"] == "spectrum-baseline" {
			found = true
			fields := obs["fields"].(map[string]any)
			assert.Equal(t, fields["minPower"], obs["noise"])
			assert.NotEqual(t, 0.0, obs["noise"])
		}
	}
	assert.True(t, found)
}

func TestProcessorNoBaselineEmittedWhileLearning(t *testing.T) {
	p, out := newTestSweepProcessor(300)
	cycle := SweepLine{
		HzLow: 5_000_000, HzHigh: 6_000_000, BinWidth: 1_000_000,
		Bins: []Bin{{FrequencyHz: 5_500_000, PowerDB: -90.0}},
	}
	p.handleLine(cycle)
	p.handleLine(cycle)
	assert.Empty(t, readSweepObservations(t, out))
}

func TestProcessorRunReturnsParsedLineCount(t *testing.T) {
	p, _ := newTestSweepProcessor(300)
	input := strings.Join([]string{
		"2024-01-01, 00:00:00, 900000000, 902000000, 1000000, 2, 10.0, 10.0",
		"# comment",
		"",
		"2024-01-01, 00:00:01, 900000000, 902000000, 1000000, 2, 10.5, 10.5",
	}, "\n")
	n := p.Run(context.Background(), strings.NewReader(input))
	assert.Equal(t, 2, n)
}
