package gate

import "sync/atomic"

// Counters tracks interceptor decisions using atomic counters.
// All fields are safe for concurrent access.
type Counters struct {
	InboundProcessed  atomic.Uint64
	InboundDropped    atomic.Uint64
	OutboundProcessed atomic.Uint64
	OutboundDropped   atomic.Uint64
	Observed          atomic.Uint64 // Tracked packets forwarded to the observer
}

// CountersSnapshot is a plain-value copy of Counters for reading.
type CountersSnapshot struct {
	InboundProcessed  uint64
	InboundDropped    uint64
	OutboundProcessed uint64
	OutboundDropped   uint64
	Observed          uint64
}

// Snapshot returns a copy of all counters.
func (c *Counters) Snapshot() CountersSnapshot {
	return CountersSnapshot{
		InboundProcessed:  c.InboundProcessed.Load(),
		InboundDropped:    c.InboundDropped.Load(),
		OutboundProcessed: c.OutboundProcessed.Load(),
		OutboundDropped:   c.OutboundDropped.Load(),
		Observed:          c.Observed.Load(),
	}
}

// Reset zeroes all counters.
func (c *Counters) Reset() {
	c.InboundProcessed.Store(0)
	c.InboundDropped.Store(0)
	c.OutboundProcessed.Store(0)
	c.OutboundDropped.Store(0)
	c.Observed.Store(0)
}
