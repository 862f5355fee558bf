package sim

import (
	"log/slog"
	"sync"
	"time"
)

// Radio simulates the radio driver and accounts how long it was powered.
type Radio struct {
	mu       sync.Mutex
	now      func() time.Time
	on       bool
	since    time.Time
	start    time.Time
	onTime   time.Duration
	toggles  int
	onChange func(on bool)
	logger   *slog.Logger
}

// NewRadio creates a powered radio. now defaults to time.Now; onChange,
// if set, is called after every power change.
func NewRadio(now func() time.Time, onChange func(on bool), logger *slog.Logger) *Radio {
	if now == nil {
		now = time.Now
	}
	t := now()
	return &Radio{now: now, on: true, since: t, start: t, onChange: onChange, logger: logger}
}

// SetPower implements sleep.Radio. Repeated requests for the current
// power state are ignored.
func (r *Radio) SetPower(on bool) {
	r.mu.Lock()
	if r.on == on {
		r.mu.Unlock()
		return
	}
	t := r.now()
	if r.on {
		r.onTime += t.Sub(r.since)
	}
	r.on = on
	r.since = t
	r.toggles++
	fn := r.onChange
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Info("radio power", "on", on)
	}
	if fn != nil {
		fn(on)
	}
}

// On reports whether the radio is powered.
func (r *Radio) On() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.on
}

// RadioStats is a point-in-time copy of the radio accounting.
type RadioStats struct {
	On      bool
	Toggles int
	OnTime  time.Duration
	Elapsed time.Duration

	// DutyCycle is OnTime / Elapsed, or 1 before any time has passed.
	DutyCycle float64
}

// Stats returns the radio accounting up to now.
func (r *Radio) Stats() RadioStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.now()
	onTime := r.onTime
	if r.on {
		onTime += t.Sub(r.since)
	}
	elapsed := t.Sub(r.start)

	st := RadioStats{On: r.on, Toggles: r.toggles, OnTime: onTime, Elapsed: elapsed, DutyCycle: 1}
	if elapsed > 0 {
		st.DutyCycle = float64(onTime) / float64(elapsed)
	}
	return st
}
