package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/slp-mesh/slp-go/pkg/log"
)

const testSession = "3f2a9c1e-7b44-4d0a-9e61-2c8d5a0f1b77"

var testStart = time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)

// sampleEvents is one sleep cycle: two packets, a fire, the pending delay,
// a dropped packet while asleep and the wake-up.
func sampleEvents() []log.Event {
	at := func(d time.Duration) time.Time { return testStart.Add(d) }
	ev := func(d time.Duration, state string, cat log.Category) log.Event {
		return log.Event{Timestamp: at(d), SessionID: testSession, NodeID: "node-2", Category: cat, GateState: state}
	}

	e := []log.Event{}

	p1 := ev(0, "ACTIVE", log.CategoryPacket)
	p1.Packet = &log.PacketEvent{Direction: log.DirectionIn, Protocol: 17, Source: "fd00::212:7403:3:303", Length: 48}
	e = append(e, p1)

	pol := ev(0, "ACTIVE", log.CategoryPolicy)
	pol.Policy = &log.PolicyEvent{Kind: "THRESHOLD", Fired: true, Count: 0, Threshold: 1}
	e = append(e, pol)

	tr1 := ev(0, "PENDING_SLEEP", log.CategoryTransition)
	tr1.Transition = &log.TransitionEvent{OldState: "ACTIVE", NewState: "PENDING_SLEEP", Trigger: "POLICY_FIRE"}
	e = append(e, tr1)

	cmd1 := ev(0, "PENDING_SLEEP", log.CategoryCommand)
	cmd1.Command = &log.CommandEvent{Command: log.CommandLeaveNetwork, Delivered: true}
	e = append(e, cmd1)

	t1 := ev(0, "PENDING_SLEEP", log.CategoryTimer)
	t1.Timer = &log.TimerEvent{Timer: "PENDING_DELAY", Action: log.TimerStarted, Duration: 5 * time.Second}
	e = append(e, t1)

	tr2 := ev(5*time.Second, "ASLEEP", log.CategoryTransition)
	tr2.Transition = &log.TransitionEvent{OldState: "PENDING_SLEEP", NewState: "ASLEEP", Trigger: "PENDING_DELAY_EXPIRED"}
	e = append(e, tr2)

	p2 := ev(6*time.Second, "ASLEEP", log.CategoryPacket)
	p2.Packet = &log.PacketEvent{Direction: log.DirectionOut, Protocol: 17, Destination: "fd00::212:7401:1:101", Dropped: true}
	e = append(e, p2)

	stale := ev(7*time.Second, "ASLEEP", log.CategoryTimer)
	stale.Timer = &log.TimerEvent{Timer: "PENDING_DELAY", Action: log.TimerStale}
	e = append(e, stale)

	tr3 := ev(15*time.Second, "ACTIVE", log.CategoryTransition)
	tr3.Transition = &log.TransitionEvent{OldState: "ASLEEP", NewState: "ACTIVE", Trigger: "SLEEP_EXPIRED"}
	e = append(e, tr3)

	cmd2 := ev(15*time.Second, "ACTIVE", log.CategoryCommand)
	cmd2.Command = &log.CommandEvent{Command: log.CommandRadioOn}
	e = append(e, cmd2)

	p3 := ev(20*time.Second, "ACTIVE", log.CategoryPacket)
	p3.Packet = &log.PacketEvent{Direction: log.DirectionIn, Protocol: 58}
	e = append(e, p3)

	return e
}

func writeLog(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "node.slog")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	defer f.Close()
	if err := log.WriteEvents(f, events); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}
