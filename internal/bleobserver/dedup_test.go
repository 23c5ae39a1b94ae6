package bleobserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeduplicatorFirstSeenAllowed(t *testing.T) {
	d := NewDeduplicator(10 * time.Second)
	assert.True(t, d.Allow("sig-a", time.Unix(1000, 0)))
}

func TestDeduplicatorSuppressesWithinWindow(t *testing.T) {
	d := NewDeduplicator(10 * time.Second)
	base := time.Unix(1000, 0)
	assert.True(t, d.Allow("sig-a", base))
	assert.False(t, d.Allow("sig-a", base.Add(5*time.Second)))
}

func TestDeduplicatorAllowsAfterWindowElapses(t *testing.T) {
	d := NewDeduplicator(10 * time.Second)
	base := time.Unix(1000, 0)
	assert.True(t, d.Allow("sig-a", base))
	assert.True(t, d.Allow("sig-a", base.Add(11*time.Second)))
}

func TestDeduplicatorCompactDropsStaleEntries(t *testing.T) {
	d := NewDeduplicator(10 * time.Second)
	base := time.Unix(1000, 0)
	d.Allow("sig-a", base)

	d.Compact(base.Add(25 * time.Second))

	_, present := d.table.Get("sig-a")
	assert.False(t, present)
	assert.True(t, d.Allow("sig-a", base.Add(25*time.Second)))
}

func TestDeduplicatorCompactKeepsFreshEntries(t *testing.T) {
	d := NewDeduplicator(10 * time.Second)
	base := time.Unix(1000, 0)
	d.Allow("sig-a", base)

	d.Compact(base.Add(5 * time.Second))

	assert.False(t, d.Allow("sig-a", base.Add(6*time.Second)))
}
