package sleep

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/slp-mesh/slp-go/pkg/gate"
	"github.com/slp-mesh/slp-go/pkg/log"
	"github.com/slp-mesh/slp-go/pkg/policy"
)

// scheduled is one running timer instance.
type scheduled struct {
	timer     Timer
	kind      TimerKind
	expect    gate.State
	gen       uint64
	startedAt time.Time
	duration  time.Duration
}

// Engine is the sleep policy engine. It is safe for concurrent use.
//
// Collaborator commands, captured events and recorder calls are queued while
// the engine lock is held and delivered afterwards, in order, by a single
// goroutine at a time. Collaborators may therefore call back into the
// engine without deadlocking.
type Engine struct {
	mu sync.Mutex

	cfg        Config
	sessionID  string
	clock      Clock
	stat       *policy.Statistic
	membership Membership
	radio      Radio
	logger     *slog.Logger
	events     log.Logger
	recorder   Recorder

	// state mirrors current for lock-free reads by the interceptor.
	state   atomic.Uint32
	current gate.State

	timers     map[TimerKind]*scheduled
	generation uint64

	transitions    uint64
	cycles         uint64
	staleTimers    uint64
	lastTransition time.Time
	closed         bool

	queue    []func()
	draining bool

	interceptor *gate.Interceptor
}

// NewEngine validates cfg and creates an engine in ACTIVE with a fresh
// statistic. membership and radio may be nil; commands for a missing
// collaborator are recorded as undelivered.
func NewEngine(cfg Config, membership Membership, radio Radio) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stat, err := policy.New(cfg.Policy, cfg.Rand)
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}

	e := &Engine{
		cfg:        cfg,
		sessionID:  uuid.NewString(),
		clock:      cfg.Clock,
		stat:       stat,
		membership: membership,
		radio:      radio,
		logger:     cfg.Logger,
		events:     cfg.EventLogger,
		recorder:   cfg.Recorder,
		current:    gate.StateActive,
		timers:     make(map[TimerKind]*scheduled),
	}
	if e.clock == nil {
		e.clock = SystemClock{}
	}
	if e.events == nil {
		e.events = log.NoopLogger{}
	}
	e.state.Store(uint32(gate.StateActive))
	e.lastTransition = e.clock.Now()

	e.interceptor = gate.NewInterceptor(e, e, gate.Config{
		Tracked:       cfg.TrackedProtocol,
		StrictPending: cfg.StrictPending,
		Recorder:      e.decisionRecorder(),
		Logger:        cfg.Logger,
	})

	e.debugLog("sleep engine created",
		"session", e.sessionID,
		"policy", stat.Kind().String(),
		"tracked", cfg.TrackedProtocol.String(),
		"pendingDelay", cfg.PendingDelay,
		"sleepDuration", cfg.SleepDuration)

	return e, nil
}

// SessionID returns the UUID stamped on every captured event.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// State returns the current gate state. It never blocks.
func (e *Engine) State() gate.State {
	return gate.State(e.state.Load())
}

// Interceptor returns the packet interceptor bound to this engine.
func (e *Engine) Interceptor() *gate.Interceptor {
	return e.interceptor
}

// Observe feeds one packet to the policy. Packets of other protocols, and
// any packet while the gate is not ACTIVE, are ignored.
func (e *Engine) Observe(meta gate.PacketMeta) {
	e.mu.Lock()
	if e.closed || e.current != gate.StateActive || meta.Protocol != e.cfg.TrackedProtocol {
		e.mu.Unlock()
		return
	}

	fired := e.stat.Observe()
	snap := e.stat.Snapshot()
	e.enqueuePolicy(snap, fired)

	if fired {
		e.fire(TriggerPolicyFire, "")
	}
	e.unlockAndDrain()
}

// ForceActive returns the gate to ACTIVE from PENDING_SLEEP or ASLEEP,
// cancelling the running timer. It reports whether a transition happened;
// in ACTIVE it does nothing.
func (e *Engine) ForceActive(reason string) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	moved := e.fire(TriggerForceActive, reason)
	e.unlockAndDrain()
	return moved
}

// Close stops all timers. Later observations, force requests and timer
// expiries are ignored. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.stopTimers()
	e.debugLog("sleep engine closed", "session", e.sessionID, "state", e.current.String())
	e.unlockAndDrain()
	return nil
}

// Snapshot is a read-only view of the engine.
type Snapshot struct {
	SessionID string
	NodeID    string
	State     gate.State
	Policy    policy.Snapshot

	// Transitions counts every state change; Cycles counts completed
	// sleep cycles (ASLEEP -> ACTIVE on expiry).
	Transitions uint64
	Cycles      uint64
	StaleTimers uint64

	LastTransition time.Time

	// Timer is the running timer, if any, and its remaining time.
	Timer          TimerKind
	TimerRemaining time.Duration

	Packets gate.CountersSnapshot
	Closed  bool
}

// Snapshot returns the current engine view.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		SessionID:      e.sessionID,
		NodeID:         e.cfg.NodeID,
		State:          e.current,
		Policy:         e.stat.Snapshot(),
		Transitions:    e.transitions,
		Cycles:         e.cycles,
		StaleTimers:    e.staleTimers,
		LastTransition: e.lastTransition,
		Packets:        e.interceptor.Counters(),
		Closed:         e.closed,
	}
	for kind, s := range e.timers {
		snap.Timer = kind
		remaining := s.duration - e.clock.Now().Sub(s.startedAt)
		if remaining > 0 {
			snap.TimerRemaining = remaining
		}
	}
	return snap
}

// fire applies trigger to the current state. Must be called with mu held.
func (e *Engine) fire(trigger Trigger, reason string) bool {
	from := e.current
	tr, ok := LookupTransition(from, trigger)
	if !ok {
		e.debugLog("trigger ignored", "state", from.String(), "trigger", trigger.String())
		return false
	}

	e.stopTimers()

	e.current = tr.To
	e.state.Store(uint32(tr.To))
	e.generation++
	e.transitions++
	e.lastTransition = e.clock.Now()
	if from == gate.StateAsleep && trigger == TriggerSleepExpired {
		e.cycles++
	}
	if tr.ResetPolicy {
		e.stat.Reset()
	}

	e.infoLog("gate state changed",
		"from", from.String(),
		"to", tr.To.String(),
		"trigger", trigger.String(),
		"reason", reason)
	e.enqueueTransition(from, tr.To, trigger, reason)

	if tr.Command != CommandNone {
		e.enqueueCommand(tr.Command)
	}

	switch tr.Timer {
	case TimerPendingDelay:
		e.startTimer(TimerPendingDelay, e.cfg.PendingDelay)
	case TimerSleepDuration:
		e.startTimer(TimerSleepDuration, e.cfg.SleepDuration)
	}
	return true
}

// startTimer schedules kind for the current state. Must be called with mu held.
func (e *Engine) startTimer(kind TimerKind, d time.Duration) {
	gen := e.generation
	s := &scheduled{
		kind:      kind,
		expect:    e.current,
		gen:       gen,
		startedAt: e.clock.Now(),
		duration:  d,
	}
	s.timer = e.clock.AfterFunc(d, func() {
		e.onTimer(kind, gen)
	})
	e.timers[kind] = s
	e.enqueueTimer(kind, log.TimerStarted, d)
}

// stopTimers cancels every running timer. Must be called with mu held.
func (e *Engine) stopTimers() {
	for kind, s := range e.timers {
		s.timer.Stop()
		delete(e.timers, kind)
		e.enqueueTimer(kind, log.TimerStopped, 0)
	}
}

// onTimer handles an expiry delivered by the clock.
func (e *Engine) onTimer(kind TimerKind, gen uint64) {
	e.mu.Lock()

	s := e.timers[kind]
	if e.closed || s == nil || s.gen != gen || e.generation != gen || e.current != s.expect {
		e.staleTimers++
		e.debugLog("stale timer expiry ignored",
			"timer", kind.String(),
			"state", e.current.String())
		e.enqueueTimer(kind, log.TimerStale, 0)
		e.unlockAndDrain()
		return
	}

	delete(e.timers, kind)
	e.enqueueTimer(kind, log.TimerExpired, 0)
	e.fire(kind.expiryTrigger(), "")
	e.unlockAndDrain()
}

// unlockAndDrain releases mu and delivers queued work. If another goroutine
// is already draining, it picks up the new work instead.
func (e *Engine) unlockAndDrain() {
	if e.draining || len(e.queue) == 0 {
		e.mu.Unlock()
		return
	}
	e.draining = true
	for {
		batch := e.queue
		e.queue = nil
		if len(batch) == 0 {
			e.draining = false
			e.mu.Unlock()
			return
		}
		e.mu.Unlock()
		for _, fn := range batch {
			fn()
		}
		e.mu.Lock()
	}
}

// event returns an event stamped with the session and current state.
// Must be called with mu held.
func (e *Engine) event(cat log.Category) log.Event {
	return log.Event{
		Timestamp: e.clock.Now(),
		SessionID: e.sessionID,
		NodeID:    e.cfg.NodeID,
		Category:  cat,
		GateState: e.current.String(),
	}
}

func (e *Engine) enqueuePolicy(snap policy.Snapshot, fired bool) {
	ev := e.event(log.CategoryPolicy)
	pe := &log.PolicyEvent{Kind: snap.Kind.String(), Fired: fired}
	switch snap.Kind {
	case policy.KindThreshold, policy.KindRandomizedThreshold:
		pe.Count = snap.Count
		pe.Threshold = snap.EffectiveThreshold
	case policy.KindProbability, policy.KindCumulativeProbability:
		pe.Probability = snap.Probability
	}
	ev.Policy = pe

	kind := snap.Kind
	e.queue = append(e.queue, func() {
		e.events.Log(ev)
		if e.recorder != nil {
			e.recorder.RecordPolicy(kind, fired)
		}
	})
}

func (e *Engine) enqueueTransition(from, to gate.State, trigger Trigger, reason string) {
	ev := e.event(log.CategoryTransition)
	ev.Transition = &log.TransitionEvent{
		OldState: from.String(),
		NewState: to.String(),
		Trigger:  trigger.String(),
		Reason:   reason,
	}
	e.queue = append(e.queue, func() {
		e.events.Log(ev)
		if e.recorder != nil {
			e.recorder.RecordTransition(from, to, trigger)
		}
	})
}

func (e *Engine) enqueueCommand(cmd Command) {
	ev := e.event(log.CategoryCommand)
	membership, radio := e.membership, e.radio
	e.queue = append(e.queue, func() {
		delivered := true
		switch cmd {
		case CommandLeaveNetwork:
			if membership == nil {
				delivered = false
			} else {
				membership.LeaveNetwork()
			}
		case CommandRadioOff, CommandRadioOn:
			if radio == nil {
				delivered = false
			} else {
				radio.SetPower(cmd == CommandRadioOn)
			}
		}
		if !delivered {
			e.debugLog("command not delivered, no collaborator", "command", cmd.String())
		}

		ev.Command = &log.CommandEvent{Command: commandType(cmd), Delivered: delivered}
		e.events.Log(ev)
		if e.recorder != nil {
			e.recorder.RecordCommand(cmd, delivered)
		}
	})
}

func (e *Engine) enqueueTimer(kind TimerKind, action log.TimerAction, d time.Duration) {
	ev := e.event(log.CategoryTimer)
	ev.Timer = &log.TimerEvent{Timer: kind.String(), Action: action, Duration: d}
	e.queue = append(e.queue, func() {
		e.events.Log(ev)
		if e.recorder != nil {
			e.recorder.RecordTimer(kind, action)
		}
	})
}

func commandType(cmd Command) log.CommandType {
	switch cmd {
	case CommandRadioOff:
		return log.CommandRadioOff
	case CommandRadioOn:
		return log.CommandRadioOn
	default:
		return log.CommandLeaveNetwork
	}
}

// infoLog logs an info message if logging is enabled.
func (e *Engine) infoLog(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Info(msg, args...)
	}
}

// debugLog logs a debug message if logging is enabled.
func (e *Engine) debugLog(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
