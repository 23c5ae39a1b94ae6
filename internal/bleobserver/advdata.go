package bleobserver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/srg/rftelemetry/internal/bledata"
)

// AD structure type codes recognized by the TLV parser (spec.md §4.4).
const (
	adTypeFlags           = 0x01
	adTypeUUID16Incomplete = 0x02
	adTypeUUID16Complete   = 0x03
	adTypeNameShort        = 0x08
	adTypeNameComplete     = 0x09
	adTypeTxPower          = 0x0A
	adTypeManufacturer     = 0xFF
)

// ADFields holds everything the advertising-data TLV parser and the Apple
// Continuity sub-parser can contribute to a ble-adv observation. Optional
// scalars carry a Has* flag so the processor can omit absent keys.
type ADFields struct {
	HasFlags    bool
	Flags       int
	HasName     bool
	DeviceName  string
	HasTxPower  bool
	TxPower     int
	ServiceUUIDs []string

	HasManufacturer  bool
	ManufacturerID   string
	ManufacturerName string

	ContinuityType string

	HasIBeaconUUID bool
	IBeaconUUID    string
	HasIBeaconMajor bool
	IBeaconMajor   int
	HasIBeaconMinor bool
	IBeaconMinor   int

	HasActivityLevel bool
	ActivityLevel    int

	HasNearbyAction bool
	NearbyAction    string

	TrackerType string
}

// ParseAdvertisingData walks the AD TLV structures following the
// advertiser address and fills in every recognized field (spec.md §4.4).
// It stops at a zero-length record or when a record would overrun data.
func ParseAdvertisingData(data []byte) ADFields {
	var out ADFields

	for i := 0; i < len(data); {
		length := int(data[i])
		if length == 0 {
			break
		}
		if i+1+length > len(data) {
			break
		}
		adType := data[i+1]
		value := data[i+2 : i+1+length]

		switch adType {
		case adTypeFlags:
			if len(value) >= 1 {
				out.HasFlags = true
				out.Flags = int(value[0])
			}
		case adTypeUUID16Incomplete, adTypeUUID16Complete:
			for j := 0; j+1 < len(value); j += 2 {
				uuid := uint16(value[j]) | uint16(value[j+1])<<8
				out.ServiceUUIDs = append(out.ServiceUUIDs, fmt.Sprintf("%04x", uuid))
			}
		case adTypeNameShort, adTypeNameComplete:
			out.HasName = true
			out.DeviceName = strings.ToValidUTF8(string(value), "�")
		case adTypeTxPower:
			if len(value) >= 1 {
				out.HasTxPower = true
				out.TxPower = int(int8(value[0]))
			}
		case adTypeManufacturer:
			if len(value) >= 2 {
				out.HasManufacturer = true
				id := uint16(value[0]) | uint16(value[1])<<8
				out.ManufacturerID = fmt.Sprintf("%04x", id)
				out.ManufacturerName = bledata.CompanyName(out.ManufacturerID)
				if out.ManufacturerID == bledata.CompanyApple {
					parseAppleContinuity(value[2:], &out)
				}
			}
		}

		i += 1 + length
	}

	return out
}

// parseAppleContinuity decodes the Apple Continuity vendor payload:
// subType(1) || subLength(1) || data (spec.md §4.4).
func parseAppleContinuity(payload []byte, out *ADFields) {
	if len(payload) < 2 {
		return
	}
	subType := payload[0]
	subLength := int(payload[1])
	data := payload[2:]
	if subLength > len(data) {
		subLength = len(data)
	}
	data = data[:subLength]

	out.ContinuityType = bledata.ContinuityTypeName(subType)

	switch bledata.ContinuitySubType(subType) {
	case bledata.ContinuityIBeacon:
		if len(data) >= 20 {
			out.HasIBeaconUUID = true
			out.IBeaconUUID = formatDashedUUID(data[0:16])
			out.HasIBeaconMajor = true
			out.IBeaconMajor = int(uint16(data[16])<<8 | uint16(data[17]))
			out.HasIBeaconMinor = true
			out.IBeaconMinor = int(uint16(data[18])<<8 | uint16(data[19]))
			if len(data) >= 21 {
				out.HasTxPower = true
				out.TxPower = int(int8(data[20]))
			}
		}
	case bledata.ContinuityNearbyInfo:
		if len(data) >= 1 {
			out.HasActivityLevel = true
			out.ActivityLevel = int((data[0] >> 4) & 0x0F)
		}
	case bledata.ContinuityNearbyAction:
		if len(data) >= 1 {
			out.HasNearbyAction = true
			out.NearbyAction = fmt.Sprintf("0x%02X", data[0])
		}
	case bledata.ContinuityFindMy:
		out.TrackerType = "Apple Find My"
	}
}

// formatDashedUUID renders 16 raw bytes as the canonical
// 8-4-4-4-12 dashed lowercase UUID string.
func formatDashedUUID(b []byte) string {
	h := hex.EncodeToString(b)
	return strings.Join([]string{h[0:8], h[8:12], h[12:16], h[16:20], h[20:32]}, "-")
}

// classifyTracker derives the tracker vendor from the manufacturer id and
// service UUIDs already parsed into ad (spec.md §4.4).
func classifyTracker(ad ADFields) string {
	if ad.ManufacturerID == bledata.CompanyApple && ad.ContinuityType == "FindMy" {
		return "Apple Find My"
	}
	if ad.ManufacturerID == bledata.CompanyTile || containsUUID(ad.ServiceUUIDs, bledata.ServiceUUIDTile) {
		return "Tile"
	}
	if ad.ManufacturerID == bledata.CompanySamsung &&
		(containsUUID(ad.ServiceUUIDs, bledata.ServiceUUIDSamsungSmart1) || containsUUID(ad.ServiceUUIDs, bledata.ServiceUUIDSamsungSmart2)) {
		return "Samsung SmartTag"
	}
	if ad.ManufacturerID == bledata.CompanyChipolo {
		return "Chipolo"
	}
	return ""
}

func containsUUID(uuids []string, target string) bool {
	for _, u := range uuids {
		if u == target {
			return true
		}
	}
	return false
}

// compositeFingerprint hashes the MAC-independent identifying features of
// a candidate so the identity survives address randomization (spec.md
// §4.4): SHA-256 over manufacturerId | sorted-joined serviceUuids |
// pdu_type | txPower | payload_length | continuityType, first 24 hex
// characters.
func compositeFingerprint(cand PDUCandidate, ad ADFields) string {
	uuids := append([]string{}, ad.ServiceUUIDs...)
	sort.Strings(uuids)

	txPower := ""
	if ad.HasTxPower {
		txPower = strconv.Itoa(ad.TxPower)
	}

	parts := strings.Join([]string{
		ad.ManufacturerID,
		strings.Join(uuids, ","),
		strconv.Itoa(cand.PDUType),
		txPower,
		strconv.Itoa(cand.PayloadLength),
		ad.ContinuityType,
	}, "|")

	sum := sha256.Sum256([]byte(parts))
	return hex.EncodeToString(sum[:])[:24]
}
