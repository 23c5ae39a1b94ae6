package bleobserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhiteningSeedEncodesChannelAndMarker(t *testing.T) {
	assert.Equal(t, byte(0x65), whiteningSeed(Channel37))
}

func TestDewhitenRoundTrip(t *testing.T) {
	bits := []int{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1, 0, 0, 0, 1, 1}
	once := dewhiten(bits, Channel38)
	twice := dewhiten(once, Channel38)
	assert.Equal(t, bits, twice)
}

func TestDewhitenAllOnesChannel37(t *testing.T) {
	bits := []int{1, 1, 1, 1, 1, 1, 1, 1}
	out := dewhiten(bits, Channel37)
	require.Len(t, out, 8)

	state := byte(0x65)
	expected := make([]int, 8)
	for i := range expected {
		lsb := state & 0x01
		expected[i] = 1 ^ int(lsb)
		feedback := lsb ^ ((state >> 4) & 0x01)
		state >>= 1
		if feedback != 0 {
			state |= 0x40
		}
	}
	assert.Equal(t, expected, out)
}

func TestBitByteRoundTrip(t *testing.T) {
	data := []byte{0x00, 0xFF, 0xA5, 0x3C}
	bits := bytesToBitsLSBFirst(data)
	require.Len(t, bits, 32)
	assert.Equal(t, data, bitsToBytesLSBFirst(bits))
}

func TestBitsToBytesLSBOrdering(t *testing.T) {
	bits := []int{1, 0, 0, 0, 0, 0, 0, 0} // bit0 set -> 0x01
	assert.Equal(t, []byte{0x01}, bitsToBytesLSBFirst(bits))
}
