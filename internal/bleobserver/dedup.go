package bleobserver

import (
	"time"

	"github.com/cornelk/hashmap"
)

// compactionIntervalHops is how often the deduplicator drops stale
// signature entries (spec.md §4.5).
const compactionIntervalHops = 30

// Deduplicator suppresses repeated ble-adv emissions for the same
// signature within a configured window (spec.md §3, §4.5).
type Deduplicator struct {
	window time.Duration
	table  *hashmap.Map[string, int64]
}

// NewDeduplicator builds an empty deduplication table with the given
// suppression window.
func NewDeduplicator(window time.Duration) *Deduplicator {
	return &Deduplicator{window: window, table: hashmap.New[string, int64]()}
}

// Allow reports whether signature should be emitted now: true and records
// the current epoch if no entry exists or the existing entry is older than
// the window; false (suppressed) otherwise.
func (d *Deduplicator) Allow(signature string, now time.Time) bool {
	epoch := now.Unix()
	if last, ok := d.table.Get(signature); ok {
		if epoch-last < int64(d.window.Seconds()) {
			return false
		}
	}
	d.table.Set(signature, epoch)
	return true
}

// Compact drops entries older than 2x the suppression window. Called
// every compactionIntervalHops channel hops by the scheduler.
func (d *Deduplicator) Compact(now time.Time) {
	cutoff := now.Unix() - 2*int64(d.window.Seconds())
	var stale []string
	d.table.Range(func(key string, value int64) bool {
		if value < cutoff {
			stale = append(stale, key)
		}
		return true
	})
	for _, key := range stale {
		d.table.Del(key)
	}
}
