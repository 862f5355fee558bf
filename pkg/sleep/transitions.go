package sleep

import "github.com/slp-mesh/slp-go/pkg/gate"

// Trigger is an event that may move the gate state.
type Trigger uint8

const (
	// TriggerPolicyFire is raised when a qualifying packet fires the policy.
	TriggerPolicyFire Trigger = iota

	// TriggerPendingDelayExpired is raised by the pending delay timer.
	TriggerPendingDelayExpired

	// TriggerSleepExpired is raised by the sleep duration timer.
	TriggerSleepExpired

	// TriggerForceActive is an out-of-band request to return to ACTIVE.
	TriggerForceActive
)

// String returns the trigger name.
func (t Trigger) String() string {
	switch t {
	case TriggerPolicyFire:
		return "POLICY_FIRE"
	case TriggerPendingDelayExpired:
		return "PENDING_DELAY_EXPIRED"
	case TriggerSleepExpired:
		return "SLEEP_EXPIRED"
	case TriggerForceActive:
		return "FORCE_ACTIVE"
	default:
		return "UNKNOWN"
	}
}

// Command is a collaborator command bound to a transition edge.
type Command uint8

const (
	// CommandNone issues nothing.
	CommandNone Command = iota

	// CommandLeaveNetwork calls Membership.LeaveNetwork.
	CommandLeaveNetwork

	// CommandRadioOff calls Radio.SetPower(false).
	CommandRadioOff

	// CommandRadioOn calls Radio.SetPower(true).
	CommandRadioOn
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandNone:
		return "NONE"
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

// TimerKind names one of the engine's timers.
type TimerKind uint8

const (
	// TimerNone means no timer.
	TimerNone TimerKind = iota

	// TimerPendingDelay runs in PENDING_SLEEP.
	TimerPendingDelay

	// TimerSleepDuration runs in ASLEEP.
	TimerSleepDuration
)

// String returns the timer name.
func (k TimerKind) String() string {
	switch k {
	case TimerNone:
		return "NONE"
	case TimerPendingDelay:
		return "PENDING_DELAY"
	case TimerSleepDuration:
		return "SLEEP_DURATION"
	default:
		return "UNKNOWN"
	}
}

// expiryTrigger returns the trigger raised when the timer expires.
func (k TimerKind) expiryTrigger() Trigger {
	if k == TimerPendingDelay {
		return TriggerPendingDelayExpired
	}
	return TriggerSleepExpired
}

type edge struct {
	from    gate.State
	trigger Trigger
}

// Transition describes the effect of taking one edge.
type Transition struct {
	From    gate.State
	To      gate.State
	Trigger Trigger

	// Command is issued once when the edge is taken.
	Command Command

	// Timer is started on entry to To.
	Timer TimerKind

	// ResetPolicy returns the statistic to its initial value.
	ResetPolicy bool
}

var transitionTable = map[edge]Transition{
	{gate.StateActive, TriggerPolicyFire}: {
		To:      gate.StatePendingSleep,
		Command: CommandLeaveNetwork,
		Timer:   TimerPendingDelay,
	},
	{gate.StatePendingSleep, TriggerPendingDelayExpired}: {
		To:      gate.StateAsleep,
		Command: CommandRadioOff,
		Timer:   TimerSleepDuration,
	},
	{gate.StateAsleep, TriggerSleepExpired}: {
		To:          gate.StateActive,
		Command:     CommandRadioOn,
		ResetPolicy: true,
	},
	{gate.StatePendingSleep, TriggerForceActive}: {
		To:          gate.StateActive,
		ResetPolicy: true,
	},
	{gate.StateAsleep, TriggerForceActive}: {
		To:          gate.StateActive,
		Command:     CommandRadioOn,
		ResetPolicy: true,
	},
}

// LookupTransition returns the edge for (from, trigger), if one exists.
func LookupTransition(from gate.State, trigger Trigger) (Transition, bool) {
	t, ok := transitionTable[edge{from, trigger}]
	if !ok {
		return Transition{}, false
	}
	t.From = from
	t.Trigger = trigger
	return t, true
}

// Transitions returns every edge of the state machine.
func Transitions() []Transition {
	out := make([]Transition, 0, len(transitionTable))
	for _, from := range []gate.State{gate.StateActive, gate.StatePendingSleep, gate.StateAsleep} {
		for _, trig := range []Trigger{TriggerPolicyFire, TriggerPendingDelayExpired, TriggerSleepExpired, TriggerForceActive} {
			if t, ok := LookupTransition(from, trig); ok {
				out = append(out, t)
			}
		}
	}
	return out
}
