package bleobserver

// Channel is a BLE advertising-channel number (37, 38, or 39).
type Channel int

const (
	Channel37 Channel = 37
	Channel38 Channel = 38
	Channel39 Channel = 39
)

// channelFrequencyHz is the fixed BLE advertising channel table of
// spec.md §3.
var channelFrequencyHz = map[Channel]int64{
	Channel37: 2402000000,
	Channel38: 2426000000,
	Channel39: 2480000000,
}

// AdvertisingChannels lists the three BLE advertising channels in the
// round-robin order the channel scheduler hops through (spec.md §4.6).
var AdvertisingChannels = []Channel{Channel37, Channel38, Channel39}

// FrequencyHz returns the fixed center frequency for a BLE advertising
// channel.
func (c Channel) FrequencyHz() int64 {
	return channelFrequencyHz[c]
}
