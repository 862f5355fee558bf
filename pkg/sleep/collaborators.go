package sleep

import (
	"github.com/slp-mesh/slp-go/pkg/gate"
	"github.com/slp-mesh/slp-go/pkg/log"
	"github.com/slp-mesh/slp-go/pkg/policy"
)

// Membership is the mesh-membership service. LeaveNetwork is best-effort
// and asynchronous; the engine does not wait for the node to deregister.
type Membership interface {
	LeaveNetwork()
}

// Radio is the radio driver.
type Radio interface {
	SetPower(on bool)
}

// Recorder receives engine activity, typically as metrics. Calls are made
// from the engine's dispatch path, in transition order.
type Recorder interface {
	RecordTransition(from, to gate.State, trigger Trigger)
	RecordCommand(cmd Command, delivered bool)
	RecordTimer(timer TimerKind, action log.TimerAction)
	RecordPolicy(kind policy.Kind, fired bool)
}

// MembershipFunc adapts a function to Membership.
type MembershipFunc func()

// LeaveNetwork calls f.
func (f MembershipFunc) LeaveNetwork() { f() }

// RadioFunc adapts a function to Radio.
type RadioFunc func(on bool)

// SetPower calls f(on).
func (f RadioFunc) SetPower(on bool) { f(on) }
