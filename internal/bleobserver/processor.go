package bleobserver

import (
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/rftelemetry/internal/rfconfig"
	"github.com/srg/rftelemetry/internal/telemetry"
)

// Processor is the enriched BLE Observer pipeline of spec.md §2: it owns
// the frontend driver, noise baseline, deduplicator, and emitter for one
// long-lived run.
type Processor struct {
	cfg      *rfconfig.BLEConfig
	logger   *logrus.Logger
	frontend *FrontendDriver
	noise    *NoiseBaseline
	dedup    *Deduplicator
	emitter  *telemetry.Emitter
}

// NewProcessor wires a Processor against the real SDR frontend, writing
// observations to w.
func NewProcessor(cfg *rfconfig.BLEConfig, logger *logrus.Logger, w io.Writer) *Processor {
	return &Processor{
		cfg:      cfg,
		logger:   logger,
		frontend: NewFrontendDriver(cfg, logger),
		noise:    NewNoiseBaseline(),
		dedup:    NewDeduplicator(cfg.DedupWindow),
		emitter:  telemetry.NewEmitter(w),
	}
}

// emitEnergy builds and emits the ble-energy observation for one dwell
// (spec.md §4.2, §6), returning the dwell's energy result so the caller
// can reuse its noise floor for any advertising records from the same
// dwell.
func (p *Processor) emitEnergy(ch Channel, buf []Sample) EnergyResult {
	energy := AnalyzeEnergy(buf)
	baseline := p.noise.Update(ch, energy.Noise)

	snr := telemetry.Round1(energy.SNR)
	obs := telemetry.Observation{
		ObservedAt:  telemetry.NowISO(),
		Protocol:    telemetry.ProtocolBLEEnergy,
		FrequencyHz: ch.FrequencyHz(),
		RSSI:        telemetry.Round1(energy.RSSI),
		Noise:       telemetry.Round1(energy.Noise),
		SNR:         &snr,
		Modulation:  "GFSK",
		Signature:   telemetry.Signature(telemetry.ProtocolBLEEnergy, energyKeyParts(ch)),
		Fields: telemetry.Fields{
			"channel":        int(ch),
			"peakPower":      telemetry.Round1(energy.RSSI),
			"burstCount":     energy.BurstCount,
			"dwellMs":        p.cfg.ChannelDwellMs,
			"noiseBaseline":  baseline.Baseline,
			"noiseStddev":    baseline.Stddev,
			"noiseDeviation": baseline.Deviation,
		},
	}

	if err := p.emitter.Emit(obs); err != nil {
		p.logger.WithError(err).Warn("failed to emit ble-energy observation")
	}
	return energy
}

// emitAdvertising builds the ble-adv observation for one decoded PDU,
// consulting the deduplicator before emission (spec.md §4.4, §4.5, §6).
// noise is the owning dwell's energy-analyzer noise floor, reused here
// rather than a fixed placeholder (SPEC_FULL.md §12).
func (p *Processor) emitAdvertising(cand PDUCandidate, noise float64) {
	sig := telemetry.Signature(telemetry.ProtocolBLEAdv, advKeyParts(cand))
	if !p.dedup.Allow(sig, time.Now()) {
		return
	}

	snr := cand.RSSI - noise
	if snr < 0 {
		snr = 0
	}
	snr = telemetry.Round1(snr)

	fields := telemetry.Fields{
		"channel":       int(cand.Channel),
		"macHash":       cand.MacHash,
		"advType":       cand.AdvType,
		"crcValid":      cand.CRCValid,
		"addressType":   cand.AddressType,
		"fingerprintId": cand.FingerprintID,
		"cfoHz":         cand.CFOHz,
	}
	addOptionalFields(fields, cand.AD)

	obs := telemetry.Observation{
		ObservedAt:  telemetry.NowISO(),
		Protocol:    telemetry.ProtocolBLEAdv,
		FrequencyHz: cand.Channel.FrequencyHz(),
		RSSI:        cand.RSSI,
		Noise:       telemetry.Round1(noise),
		SNR:         &snr,
		Modulation:  "GFSK",
		Signature:   sig,
		Fields:      fields,
	}

	if err := p.emitter.Emit(obs); err != nil {
		p.logger.WithError(err).Warn("failed to emit ble-adv observation")
	}
}

func energyKeyParts(ch Channel) string {
	return "channel=" + strconv.Itoa(int(ch))
}

func advKeyParts(cand PDUCandidate) string {
	return "macHash=" + cand.MacHash + "&advType=" + cand.AdvType
}

func addOptionalFields(fields telemetry.Fields, ad ADFields) {
	if ad.HasFlags {
		fields["flags"] = ad.Flags
	}
	if ad.HasName {
		fields["deviceName"] = ad.DeviceName
	}
	if ad.HasTxPower {
		fields["txPower"] = ad.TxPower
	}
	if len(ad.ServiceUUIDs) > 0 {
		fields["serviceUuids"] = ad.ServiceUUIDs
	}
	if ad.HasManufacturer {
		fields["manufacturerId"] = ad.ManufacturerID
		fields["manufacturerName"] = ad.ManufacturerName
	}
	if ad.ContinuityType != "" {
		fields["continuityType"] = ad.ContinuityType
	}
	if ad.HasIBeaconUUID {
		fields["ibeaconUuid"] = ad.IBeaconUUID
	}
	if ad.HasIBeaconMajor {
		fields["ibeaconMajor"] = ad.IBeaconMajor
	}
	if ad.HasIBeaconMinor {
		fields["ibeaconMinor"] = ad.IBeaconMinor
	}
	if ad.HasActivityLevel {
		fields["activityLevel"] = ad.ActivityLevel
	}
	if ad.HasNearbyAction {
		fields["nearbyAction"] = ad.NearbyAction
	}
	if ad.TrackerType != "" {
		fields["trackerType"] = ad.TrackerType
	}
}
