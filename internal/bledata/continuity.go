package bledata

import "fmt"

// ContinuitySubType is an Apple Continuity protocol sub-type byte, the
// first byte of the vendor payload that follows the 004c manufacturer ID
// (spec.md §4.4).
type ContinuitySubType byte

const (
	ContinuityIBeacon      ContinuitySubType = 0x02
	ContinuityAirDrop      ContinuitySubType = 0x05
	ContinuityAirPods      ContinuitySubType = 0x07
	ContinuityHandoff      ContinuitySubType = 0x0C
	ContinuityNearbyAction ContinuitySubType = 0x0F
	ContinuityNearbyInfo   ContinuitySubType = 0x10
	ContinuityFindMy       ContinuitySubType = 0x12
)

var continuityNames = map[ContinuitySubType]string{
	ContinuityIBeacon:      "iBeacon",
	ContinuityAirDrop:      "AirDrop",
	ContinuityAirPods:      "AirPods",
	ContinuityHandoff:      "Handoff",
	ContinuityNearbyAction: "NearbyAction",
	ContinuityNearbyInfo:   "NearbyInfo",
	ContinuityFindMy:       "FindMy",
}

// ContinuityTypeName returns the documented name for a Continuity
// sub-type, or "Unknown-0xNN" for anything not in the table (spec.md §4.4).
func ContinuityTypeName(subType byte) string {
	if name, ok := continuityNames[ContinuitySubType(subType)]; ok {
		return name
	}
	return fmt.Sprintf("Unknown-0x%02X", subType)
}
