package bleobserver

import (
	"context"
	"time"
)

// backoffOnAbsent is the recovery sleep after a dwell that yields no
// buffer (spec.md §4.6).
const backoffOnAbsent = 100 * time.Millisecond

// progressIntervalHops is how often the scheduler logs a diagnostic
// progress line (spec.md §4.6).
const progressIntervalHops = 100

// Run drives the channel scheduler until ctx is cancelled: round-robins
// the three advertising channels, running one dwell per hop through p
// (spec.md §4.6). It returns the total hop count at exit for the final
// diagnostic summary.
func (p *Processor) Run(ctx context.Context) int {
	hops := 0
	idx := 0
	for {
		select {
		case <-ctx.Done():
			return hops
		default:
		}

		ch := AdvertisingChannels[idx%len(AdvertisingChannels)]
		idx++
		hops++

		p.RunDwell(ctx, ch)

		if hops%compactionIntervalHops == 0 {
			p.dedup.Compact(time.Now())
		}
		if hops%progressIntervalHops == 0 {
			p.logger.WithField("hops", hops).Info("channel scheduler progress")
		}

		select {
		case <-ctx.Done():
			return hops
		default:
		}
	}
}

// RunDwell executes one channel dwell: capture, energy analysis, and PDU
// recognition, emitting observations in the order energy-then-advertising
// (spec.md §5). On an absent capture it logs and backs off for 100ms.
func (p *Processor) RunDwell(ctx context.Context, ch Channel) {
	buf, ok := p.frontend.Capture(ctx, ch)
	if !ok {
		p.logger.WithField("channel", ch).Debug("dwell yielded no capture")
		select {
		case <-ctx.Done():
		case <-time.After(backoffOnAbsent):
		}
		return
	}

	energy := p.emitEnergy(ch, buf)

	bits, phase, ok := Demodulate(buf, p.cfg.SampleRateHz)
	if !ok {
		return
	}

	candidates := RecognizePDUs(bits, phase, buf, ch, p.cfg.SampleRateHz)
	for _, cand := range candidates {
		p.emitAdvertising(cand, energy.Noise)
	}
}
