package sweepdetector

import (
	"strconv"
	"strings"
)

// SweepLine is one parsed hackrf_sweep CSV record: a run of bin
// (center-frequency, power-dB) pairs sharing one low/high/width header
// (spec.md §4.7).
type SweepLine struct {
	HzLow     int64
	HzHigh    int64
	BinWidth  int64
	Bins      []Bin
}

// Bin is one (center-frequency, power-dB) reading.
type Bin struct {
	FrequencyHz int64
	PowerDB     float64
}

// ParseLine converts one hackrf_sweep CSV line into a SweepLine. It
// returns (line, false) for blank lines, comment lines (leading '#'), and
// any line with fewer than 7 comma-separated fields or a non-numeric
// field — these are silently dropped per spec.md §7, not propagated as
// errors.
func ParseLine(raw string) (SweepLine, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return SweepLine{}, false
	}

	fields := strings.Split(trimmed, ",")
	if len(fields) < 7 {
		return SweepLine{}, false
	}

	hzLow, err := parseInt(fields[2])
	if err != nil {
		return SweepLine{}, false
	}
	hzHigh, err := parseInt(fields[3])
	if err != nil {
		return SweepLine{}, false
	}
	binWidth, err := parseInt(fields[4])
	if err != nil {
		return SweepLine{}, false
	}
	if _, err := parseInt(fields[5]); err != nil {
		return SweepLine{}, false
	}

	dbFields := fields[6:]
	bins := make([]Bin, 0, len(dbFields))
	for i, f := range dbFields {
		db, err := parseFloat(f)
		if err != nil {
			return SweepLine{}, false
		}
		center := hzLow + binWidth*int64(i) + binWidth/2
		bins = append(bins, Bin{FrequencyHz: center, PowerDB: db})
	}

	return SweepLine{HzLow: hzLow, HzHigh: hzHigh, BinWidth: binWidth, Bins: bins}, true
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
