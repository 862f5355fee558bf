package gate

import (
	"log/slog"
)

// StateReader exposes the current gate state. The sleep engine implements
// it; reads must never observe a partially updated state.
type StateReader interface {
	State() State
}

// Observer receives qualifying packet observations while the gate is active.
type Observer interface {
	Observe(meta PacketMeta)
}

// DecisionRecorder receives every classification together with the gate
// state it was made in, for metrics or event capture.
type DecisionRecorder interface {
	RecordDecision(dir Direction, state State, meta PacketMeta, action Action)
}

// Config configures an Interceptor.
type Config struct {
	// Tracked is the transport protocol the sleep policy reacts to.
	Tracked Protocol

	// StrictPending drops all inbound traffic during PENDING_SLEEP instead
	// of letting non-tracked control traffic through.
	StrictPending bool

	// Recorder is optional.
	Recorder DecisionRecorder

	// Logger is the optional logger for dropped packets (Debug level).
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Interceptor classifies inbound and outbound packets against the gate
// state. It is safe for concurrent use.
type Interceptor struct {
	state         StateReader
	observer      Observer
	tracked       Protocol
	strictPending bool
	recorder      DecisionRecorder
	logger        *slog.Logger

	counters Counters
}

// NewInterceptor creates an interceptor reading state from state and
// forwarding tracked inbound packets to observer. observer may be nil.
func NewInterceptor(state StateReader, observer Observer, cfg Config) *Interceptor {
	return &Interceptor{
		state:         state,
		observer:      observer,
		tracked:       cfg.Tracked,
		strictPending: cfg.StrictPending,
		recorder:      cfg.Recorder,
		logger:        cfg.Logger,
	}
}

// Tracked returns the tracked transport protocol.
func (i *Interceptor) Tracked() Protocol {
	return i.tracked
}

// ClassifyInbound decides on a received packet. While active, a packet of
// the tracked protocol is forwarded to the observer before returning.
func (i *Interceptor) ClassifyInbound(meta PacketMeta) Action {
	state := i.state.State()
	action := Decide(state, DirectionInbound, meta.Protocol, i.tracked, i.strictPending)

	if action == ActionProcess {
		i.counters.InboundProcessed.Add(1)
		if state == StateActive && meta.Protocol == i.tracked && i.observer != nil {
			i.counters.Observed.Add(1)
			i.observer.Observe(meta)
		}
	} else {
		i.counters.InboundDropped.Add(1)
		i.logDrop(DirectionInbound, state, meta)
	}

	i.record(DirectionInbound, state, meta, action)
	return action
}

// ClassifyOutbound decides on a packet about to be transmitted.
func (i *Interceptor) ClassifyOutbound(meta PacketMeta) Action {
	state := i.state.State()
	action := Decide(state, DirectionOutbound, meta.Protocol, i.tracked, i.strictPending)

	if action == ActionProcess {
		i.counters.OutboundProcessed.Add(1)
	} else {
		i.counters.OutboundDropped.Add(1)
		i.logDrop(DirectionOutbound, state, meta)
	}

	i.record(DirectionOutbound, state, meta, action)
	return action
}

// Counters returns a point-in-time copy of the classification counters.
func (i *Interceptor) Counters() CountersSnapshot {
	return i.counters.Snapshot()
}

// ResetCounters zeroes the classification counters.
func (i *Interceptor) ResetCounters() {
	i.counters.Reset()
}

func (i *Interceptor) record(dir Direction, state State, meta PacketMeta, action Action) {
	if i.recorder != nil {
		i.recorder.RecordDecision(dir, state, meta, action)
	}
}

func (i *Interceptor) logDrop(dir Direction, state State, meta PacketMeta) {
	if i.logger == nil {
		return
	}
	i.logger.Debug("packet cancelled",
		"direction", dir.String(),
		"state", state.String(),
		"proto", meta.Protocol.String(),
		"src", meta.Source.String(),
		"dst", meta.Destination.String(),
	)
}

// Decide is the pure classification rule shared by both hooks.
func Decide(state State, dir Direction, proto, tracked Protocol, strictPending bool) Action {
	switch state {
	case StateActive:
		return ActionProcess

	case StatePendingSleep:
		if dir == DirectionOutbound {
			return ActionDrop
		}
		if proto == tracked || strictPending {
			return ActionDrop
		}
		return ActionProcess

	default:
		return ActionDrop
	}
}

// Compile-time interface satisfaction check.
var _ Processor = (*Interceptor)(nil)
