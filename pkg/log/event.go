package log

import (
	"time"
)

// Event represents one captured sleep-engine event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one engine run (UUID).
	SessionID string `cbor:"2,keyasint"`

	// NodeID is the node's name or address, if configured.
	NodeID string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// GateState is the gate state when the event was produced.
	GateState string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Packet     *PacketEvent     `cbor:"10,keyasint,omitempty"`
	Policy     *PolicyEvent     `cbor:"11,keyasint,omitempty"`
	Transition *TransitionEvent `cbor:"12,keyasint,omitempty"`
	Command    *CommandEvent    `cbor:"13,keyasint,omitempty"`
	Timer      *TimerEvent      `cbor:"14,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryPacket is an interceptor verdict.
	CategoryPacket Category = 0
	// CategoryPolicy is a policy evaluation for a qualifying packet.
	CategoryPolicy Category = 1
	// CategoryTransition is a gate state change.
	CategoryTransition Category = 2
	// CategoryCommand is a command issued to a collaborator.
	CategoryCommand Category = 3
	// CategoryTimer is timer activity.
	CategoryTimer Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryPacket:
		return "PACKET"
	case CategoryPolicy:
		return "POLICY"
	case CategoryTransition:
		return "TRANSITION"
	case CategoryCommand:
		return "COMMAND"
	case CategoryTimer:
		return "TIMER"
	default:
		return "UNKNOWN"
	}
}

// Direction indicates packet flow.
type Direction uint8

const (
	// DirectionIn indicates a received packet.
	DirectionIn Direction = 0
	// DirectionOut indicates a packet about to be sent.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// PacketEvent captures one interceptor verdict.
type PacketEvent struct {
	Direction   Direction `cbor:"1,keyasint"`
	Protocol    uint8     `cbor:"2,keyasint"`
	Source      string    `cbor:"3,keyasint,omitempty"`
	Destination string    `cbor:"4,keyasint,omitempty"`
	Length      int       `cbor:"5,keyasint,omitempty"`

	// Dropped is true when the packet was cancelled.
	Dropped bool `cbor:"6,keyasint,omitempty"`
}

// PolicyEvent captures the evaluation of one qualifying packet.
type PolicyEvent struct {
	// Kind is the policy kind name.
	Kind string `cbor:"1,keyasint"`

	// Fired reports whether the packet triggered the policy.
	Fired bool `cbor:"2,keyasint,omitempty"`

	// Count is the packet count after evaluation (threshold kinds).
	Count uint32 `cbor:"3,keyasint,omitempty"`

	// Threshold is the effective threshold (threshold kinds).
	Threshold uint32 `cbor:"4,keyasint,omitempty"`

	// Probability is the firing probability used (probability kinds).
	Probability float64 `cbor:"5,keyasint,omitempty"`
}

// TransitionEvent captures a gate state change.
type TransitionEvent struct {
	OldState string `cbor:"1,keyasint"`
	NewState string `cbor:"2,keyasint"`

	// Trigger is the edge that fired (e.g. POLICY_FIRE).
	Trigger string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// CommandType identifies a collaborator command.
type CommandType uint8

const (
	// CommandLeaveNetwork asks the mesh membership to deregister.
	CommandLeaveNetwork CommandType = 0
	// CommandRadioOff powers the transceiver down.
	CommandRadioOff CommandType = 1
	// CommandRadioOn powers the transceiver up.
	CommandRadioOn CommandType = 2
)

// String returns the command name.
func (c CommandType) String() string {
	switch c {
	case CommandLeaveNetwork:
		return "LEAVE_NETWORK"
	case CommandRadioOff:
		return "RADIO_OFF"
	case CommandRadioOn:
		return "RADIO_ON"
	default:
		return "UNKNOWN"
	}
}

// CommandEvent captures a command issued to a collaborator.
type CommandEvent struct {
	Command CommandType `cbor:"1,keyasint"`

	// Delivered is false when no collaborator was configured.
	Delivered bool `cbor:"2,keyasint,omitempty"`
}

// TimerAction describes what happened to a timer.
type TimerAction uint8

const (
	// TimerStarted means the timer was scheduled.
	TimerStarted TimerAction = 0
	// TimerExpired means the expiry was accepted.
	TimerExpired TimerAction = 1
	// TimerStale means the expiry arrived after its state was left.
	TimerStale TimerAction = 2
	// TimerStopped means the timer was cancelled.
	TimerStopped TimerAction = 3
)

// String returns the timer action name.
func (a TimerAction) String() string {
	switch a {
	case TimerStarted:
		return "STARTED"
	case TimerExpired:
		return "EXPIRED"
	case TimerStale:
		return "STALE"
	case TimerStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// TimerEvent captures timer activity.
type TimerEvent struct {
	// Timer is the timer name (PENDING_DELAY, SLEEP_DURATION).
	Timer string `cbor:"1,keyasint"`

	Action TimerAction `cbor:"2,keyasint"`

	// Duration is the scheduled duration (started only), in nanoseconds.
	Duration time.Duration `cbor:"3,keyasint,omitempty"`
}
