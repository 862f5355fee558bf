package policy

import "math"

// MaxProbability is the ceiling for cumulative probability growth.
const MaxProbability = 1.0

// Statistic is the mutable policy state for one engine.
type Statistic struct {
	cfg Config
	src Source

	count     uint32
	effective uint32
	drawn     bool
	p         float64

	observations uint64
	fires        uint64
}

// Snapshot is a read-only view of a Statistic.
type Snapshot struct {
	Kind Kind

	// Count is the number of qualifying packets since the last fire or reset.
	Count uint32

	// Threshold is the configured threshold (threshold kinds only).
	Threshold uint32

	// EffectiveThreshold is the threshold the count is compared against.
	// For KindRandomizedThreshold it is only meaningful when Drawn is set.
	EffectiveThreshold uint32
	Drawn              bool

	// Probability is the current firing probability (probability kinds only).
	Probability float64

	Observations uint64
	Fires        uint64
}

// New validates cfg and creates a Statistic in its initial state.
// If src is nil a time-seeded source is used.
func New(cfg Config, src Source) (*Statistic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = NewSource()
	}

	s := &Statistic{cfg: cfg, src: src}
	s.Reset()
	return s, nil
}

// Kind returns the policy kind.
func (s *Statistic) Kind() Kind {
	return s.cfg.Kind
}

// Config returns the static configuration.
func (s *Statistic) Config() Config {
	return s.cfg
}

// Observe records one qualifying packet and reports whether the policy fires.
func (s *Statistic) Observe() bool {
	s.observations++

	var fired bool
	switch s.cfg.Kind {
	case KindThreshold:
		s.count++
		if s.count >= s.cfg.Threshold {
			s.count = 0
			fired = true
		}

	case KindRandomizedThreshold:
		threshold := s.EffectiveThreshold()
		s.count++
		if s.count >= threshold {
			s.count = 0
			fired = true
		}

	case KindProbability:
		fired = s.src.Float64() < s.cfg.Probability

	case KindCumulativeProbability:
		s.p = math.Min(s.p*s.cfg.Multiplier, MaxProbability)
		if s.src.Float64() < s.p {
			s.p = s.cfg.BaseProbability
			fired = true
		}
	}

	if fired {
		s.fires++
	}
	return fired
}

// EffectiveThreshold returns the threshold the packet count is compared
// against. For KindRandomizedThreshold the value is drawn on first use and
// kept until Reset.
func (s *Statistic) EffectiveThreshold() uint32 {
	if s.cfg.Kind != KindRandomizedThreshold {
		return s.cfg.Threshold
	}
	if !s.drawn {
		s.effective = uint32(s.src.Intn(int(s.cfg.Threshold)))
		s.drawn = true
	}
	return s.effective
}

// Reset returns the statistic to its initial value. A randomized threshold
// is drawn again on next use.
func (s *Statistic) Reset() {
	s.count = 0
	s.effective = 0
	s.drawn = false
	s.p = s.cfg.BaseProbability
	if s.cfg.Kind == KindProbability {
		s.p = s.cfg.Probability
	}
}

// Snapshot returns a copy of the current statistic.
func (s *Statistic) Snapshot() Snapshot {
	snap := Snapshot{
		Kind:         s.cfg.Kind,
		Count:        s.count,
		Observations: s.observations,
		Fires:        s.fires,
	}

	switch s.cfg.Kind {
	case KindThreshold:
		snap.Threshold = s.cfg.Threshold
		snap.EffectiveThreshold = s.cfg.Threshold
		snap.Drawn = true
	case KindRandomizedThreshold:
		snap.Threshold = s.cfg.Threshold
		snap.EffectiveThreshold = s.effective
		snap.Drawn = s.drawn
	case KindProbability, KindCumulativeProbability:
		snap.Probability = s.p
	}
	return snap
}
