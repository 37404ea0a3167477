package client

import "time"

// ReconnectPolicy decides how long to wait before a reconnection attempt.
// attempt counts consecutive failures since the last open connection,
// starting at 1.
type ReconnectPolicy interface {
	NextDelay(attempt int) time.Duration
}

// FixedDelay waits the same duration before every attempt, with no retry
// cap. This is the default policy: 3 seconds, unconditional, forever.
type FixedDelay struct {
	Delay time.Duration
}

// DefaultReconnectPolicy returns the standard fixed 3 second policy
func DefaultReconnectPolicy() ReconnectPolicy {
	return FixedDelay{Delay: 3 * time.Second}
}

// NextDelay returns the fixed delay regardless of attempt count
func (p FixedDelay) NextDelay(_ int) time.Duration {
	return p.Delay
}

// ExponentialBackoff doubles the delay per consecutive failure, capped at
// Max. Provided as an alternative policy; nothing in the connector
// changes when it is swapped in.
type ExponentialBackoff struct {
	Initial time.Duration
	Max     time.Duration
}

// NextDelay returns Initial << (attempt-1), capped at Max
func (p ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.Initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.Max {
			return p.Max
		}
	}
	if d > p.Max {
		return p.Max
	}
	return d
}
