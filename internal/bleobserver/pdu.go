package bleobserver

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"

	"github.com/srg/rftelemetry/internal/telemetry"
)

// accessAddressBits is the fixed advertising-channel access address
// 0x8E89BED6, expanded most-significant-bit-first (spec.md §4.4).
var accessAddressBits = func() [32]int {
	const aa uint32 = 0x8E89BED6
	var bits [32]int
	for i := 0; i < 32; i++ {
		bits[i] = int((aa >> uint(31-i)) & 1)
	}
	return bits
}()

// advTypeNames maps the 4-bit PDU type field to its advertising PDU name
// (spec.md §6).
var advTypeNames = map[int]string{
	0x00: "ADV_IND",
	0x01: "ADV_DIRECT_IND",
	0x02: "ADV_NONCONN_IND",
	0x03: "SCAN_REQ",
	0x04: "SCAN_RSP",
	0x05: "CONNECT_IND",
	0x06: "ADV_SCAN_IND",
}

// PDUCandidate is one decoded BLE advertising PDU, carrying everything the
// processor needs to build a ble-adv observation (spec.md §4.4/§6).
type PDUCandidate struct {
	Channel        Channel
	PDUType        int
	AdvType        string
	AddressType    string
	PayloadLength  int
	CRCValid       bool
	MacHash        string
	FingerprintID  string
	CFOHz          float64
	RSSI           float64
	AD             ADFields
}

// RecognizePDUs scans bits for access-address matches, dewhitens and
// decodes each candidate, and returns them in ascending match-index order
// (spec.md §4.4, §5 ordering guarantee).
func RecognizePDUs(bits []int, phase []float64, buf []Sample, ch Channel, sampleRateHz int) []PDUCandidate {
	var out []PDUCandidate
	s := samplesPerSymbol(sampleRateHz)

	for i := 0; i+32+40 <= len(bits); i++ {
		mismatches := 0
		for j := 0; j < 32; j++ {
			if bits[i+j] != accessAddressBits[j] {
				mismatches++
				if mismatches > 1 {
					break
				}
			}
		}
		if mismatches > 1 {
			continue
		}

		cand, ok := decodeCandidate(bits[i+32:], ch)
		if !ok {
			continue
		}
		cand.Channel = ch
		cand.CFOHz = estimateCFO(phase, i+32, s, sampleRateHz)
		cand.RSSI = packetRSSI(buf, i, cand.PayloadLength, s)
		out = append(out, cand)
	}
	return out
}

// decodeCandidate dewhitens the post-access-address bits, parses the
// header, extracts the address and advertising data, and validates CRC-24.
func decodeCandidate(postAA []int, ch Channel) (PDUCandidate, bool) {
	dw := dewhiten(postAA, ch)
	if len(dw) < 16 {
		return PDUCandidate{}, false
	}
	headerBits := dw[:16]
	headerBytes := bitsToBytesLSBFirst(headerBits)

	pduType := int(headerBytes[0] & 0x0F)
	txAdd := (headerBytes[0] >> 6) & 0x01
	payloadLength := int(headerBytes[1] & 0x3F)
	if payloadLength < 6 || payloadLength > 37 {
		return PDUCandidate{}, false
	}

	needBits := (payloadLength + 3) * 8
	if len(dw)-16 < needBits {
		return PDUCandidate{}, false
	}
	bodyBits := dw[16 : 16+needBits]
	bodyBytes := bitsToBytesLSBFirst(bodyBits)
	payloadBytes := bodyBytes[:payloadLength]
	crcBytes := bodyBytes[payloadLength : payloadLength+3]

	computed := crc24BLE(append(append([]byte{}, headerBytes...), payloadBytes...))
	received := crc24Decode(crcBytes[0], crcBytes[1], crcBytes[2])
	crcValid := computed == received

	addrType := "public"
	if txAdd != 0 {
		addrType = "random"
	}

	advType, ok := advTypeNames[pduType]
	if !ok {
		advType = unknownAdvType(pduType)
	}

	macAddr := payloadBytes[:6]
	sum := sha256.Sum256(macAddr)
	macHash := hex.EncodeToString(sum[:])[:16]

	adBytes := payloadBytes[6:]
	ad := ParseAdvertisingData(adBytes)
	ad.TrackerType = classifyTracker(ad)

	cand := PDUCandidate{
		PDUType:       pduType,
		AdvType:       advType,
		AddressType:   addrType,
		PayloadLength: payloadLength,
		CRCValid:      crcValid,
		MacHash:       macHash,
		AD:            ad,
	}
	cand.FingerprintID = compositeFingerprint(cand, ad)
	return cand, true
}

func unknownAdvType(pduType int) string {
	return "UNKNOWN_" + strconv.Itoa(pduType)
}

// estimateCFO averages the 8 symbols' worth of phase samples immediately
// following the access address and converts to Hz (spec.md §4.4).
func estimateCFO(phase []float64, aaEndSymbol, samplesPerSym, sampleRateHz int) float64 {
	start := aaEndSymbol * samplesPerSym
	count := 8 * samplesPerSym
	if start >= len(phase) || count <= 0 {
		return 0
	}
	end := start + count
	if end > len(phase) {
		end = len(phase)
	}
	if end <= start {
		return 0
	}
	sum := 0.0
	for _, p := range phase[start:end] {
		sum += p
	}
	mean := sum / float64(end-start)
	cfo := mean * float64(sampleRateHz) / (2 * math.Pi)
	return telemetry.Round1(cfo)
}

// packetRSSI approximates per-packet RSSI over the complex samples
// spanning the packet, falling back to -99.0 when the window is empty
// (spec.md §4.4, §9).
func packetRSSI(buf []Sample, startSymbol, payloadLength, samplesPerSym int) float64 {
	if samplesPerSym <= 0 {
		return -99.0
	}
	totalSymbols := 32 + (2+payloadLength+3)*8
	start := startSymbol * samplesPerSym
	end := start + totalSymbols*samplesPerSym
	if start < 0 {
		start = 0
	}
	if start >= len(buf) {
		return -99.0
	}
	if end > len(buf) {
		end = len(buf)
	}
	if end <= start {
		return -99.0
	}
	mean := meanPower(buf[start:end])
	return telemetry.Round1(toDB(mean))
}
