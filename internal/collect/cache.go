package collect

import "time"

// ticket tracks when a cached source was last refreshed. The zero value is
// immediately due.
type ticket struct {
	interval time.Duration
	last     time.Time
}

// due reports whether the source must refresh now, stamping the time when
// it is. The stamp advances whether or not the refresh then succeeds, so a
// failing source is retried on its normal cadence, never faster.
func (t *ticket) due(now time.Time) bool {
	if now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}
