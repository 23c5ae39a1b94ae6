package sweepdetector

import (
	"bufio"
	"context"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/srg/rftelemetry/internal/rfconfig"
	"github.com/srg/rftelemetry/internal/telemetry"
)

const sweepCycleHzLowThreshold = 10_000_000

// binWidthHz is the fixed bin width the emitted spectrum-anomaly records
// report, per spec.md §6.
const binWidthHz = 1_000_000

// state is the processor-wide LEARNING/TRACKING machine of spec.md §4.8.
// Promotion of individual bins only happens once, at the single moment
// this flips from learning to tracking.
type state int

const (
	stateLearning state = iota
	stateTracking
)

// Processor is the Wideband Anomaly Detector: it folds CSV sweep lines
// into per-bin statistics, promotes LEARNING to TRACKING once, flags
// anomalies, and periodically emits per-band baseline summaries.
type Processor struct {
	cfg     *rfconfig.SweepConfig
	logger  *logrus.Logger
	emitter *telemetry.Emitter
	anomaly *AnomalyDetector

	state       state
	startedAt   time.Time
	bins        map[int64]*BinStats
	binOrder    []int64
	sweepCycles int
}

// NewProcessor builds a sweep processor writing NDJSON observations to w
// and diagnostics through logger.
func NewProcessor(cfg *rfconfig.SweepConfig, logger *logrus.Logger, w io.Writer) *Processor {
	return &Processor{
		cfg:     cfg,
		logger:  logger,
		emitter: telemetry.NewEmitter(w),
		anomaly: NewAnomalyDetector(cfg.AnomalySigma, cfg.MinStreak),
		state:   stateLearning,
		bins:    make(map[int64]*BinStats),
	}
}

// Run consumes newline-delimited sweep CSV from r until EOF or ctx
// cancellation, returning the number of lines successfully parsed.
func (p *Processor) Run(ctx context.Context, r io.Reader) int {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	parsed := 0

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return parsed
		default:
		}

		line, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		parsed++
		p.handleLine(line)
	}
	return parsed
}

func (p *Processor) handleLine(line SweepLine) {
	if p.startedAt.IsZero() {
		p.startedAt = time.Now()
	}

	if p.state == stateLearning && time.Since(p.startedAt) >= time.Duration(p.cfg.BaselineSeconds)*time.Second {
		p.finalizeLearning()
	}

	if line.HzLow < sweepCycleHzLowThreshold {
		p.sweepCycles++
		if p.state == stateTracking && p.cfg.EmitInterval > 0 && p.sweepCycles%p.cfg.EmitInterval == 0 {
			p.emitBaselines()
		}
	}

	for _, bin := range line.Bins {
		stats, ok := p.bins[bin.FrequencyHz]
		if !ok {
			stats = NewBinStats()
			p.bins[bin.FrequencyHz] = stats
			p.binOrder = append(p.binOrder, bin.FrequencyHz)
		}
		stats.Update(bin.PowerDB)

		if p.state == stateTracking {
			if anomaly, hit := p.anomaly.Check(bin.FrequencyHz, bin.PowerDB, stats); hit {
				p.emitAnomaly(anomaly)
			}
		}
	}
}

func (p *Processor) finalizeLearning() {
	p.state = stateTracking
	for _, stats := range p.bins {
		stats.FinalizeLearning()
	}
	p.logger.Info("sweep baseline learned, switching to tracking")
}

func (p *Processor) emitAnomaly(a Anomaly) {
	band := BandName(a.FrequencyHz)
	sig := telemetry.Signature(telemetry.ProtocolSpectrumAnomaly, "band="+band+"&type="+a.AnomalyType)
	obs := telemetry.Observation{
		ObservedAt:  telemetry.NowISO(),
		Protocol:    telemetry.ProtocolSpectrumAnomaly,
		FrequencyHz: a.FrequencyHz,
		RSSI:        telemetry.Round1(a.MeasuredPower),
		Noise:       telemetry.Round1(a.BaselinePower),
		Signature:   sig,
		Fields: telemetry.Fields{
			"band":           band,
			"binWidthHz":     binWidthHz,
			"measuredPower":  telemetry.Round1(a.MeasuredPower),
			"baselinePower":  telemetry.Round1(a.BaselinePower),
			"deviationSigma": telemetry.Round1(a.DeviationSigma),
			"anomalyType":    a.AnomalyType,
		},
	}
	p.emitter.Emit(obs)
}

func (p *Processor) emitBaselines() {
	freqs := make([]int64, len(p.binOrder))
	copy(freqs, p.binOrder)
	sort.Slice(freqs, func(i, j int) bool { return freqs[i] < freqs[j] })

	for _, summary := range SummarizeBands(freqs, p.bins) {
		sig := telemetry.Signature(telemetry.ProtocolSpectrumBaseline, "band="+summary.Band)
		obs := telemetry.Observation{
			ObservedAt:  telemetry.NowISO(),
			Protocol:    telemetry.ProtocolSpectrumBaseline,
			FrequencyHz: summary.FreqHz,
			RSSI:        telemetry.Round1(summary.Mean),
			Noise:       telemetry.Round1(summary.Min),
			Signature:   sig,
			Fields: telemetry.Fields{
				"band":      summary.Band,
				"meanPower": telemetry.Round1(summary.Mean),
				"minPower":  telemetry.Round1(summary.Min),
				"maxPower":  telemetry.Round1(summary.Max),
				"stdPower":  telemetry.Round1(summary.Std),
				"binCount":  summary.BinCount,
			},
		}
		p.emitter.Emit(obs)
	}
}
