package sleep

import (
	"github.com/slp-mesh/slp-go/pkg/gate"
	"github.com/slp-mesh/slp-go/pkg/log"
)

// packetTap turns interceptor verdicts into captured packet events.
type packetTap struct {
	e *Engine
}

func (t packetTap) RecordDecision(dir gate.Direction, state gate.State, meta gate.PacketMeta, action gate.Action) {
	ev := log.Event{
		Timestamp: t.e.clock.Now(),
		SessionID: t.e.sessionID,
		NodeID:    t.e.cfg.NodeID,
		Category:  log.CategoryPacket,
		GateState: state.String(),
		Packet: &log.PacketEvent{
			Direction: log.DirectionIn,
			Protocol:  uint8(meta.Protocol),
			Length:    meta.Length,
			Dropped:   action == gate.ActionDrop,
		},
	}
	if dir == gate.DirectionOutbound {
		ev.Packet.Direction = log.DirectionOut
	}
	if meta.Source.IsValid() {
		ev.Packet.Source = meta.Source.String()
	}
	if meta.Destination.IsValid() {
		ev.Packet.Destination = meta.Destination.String()
	}
	t.e.events.Log(ev)
}

// decisionFanout delivers each verdict to every recorder in order.
type decisionFanout []gate.DecisionRecorder

func (f decisionFanout) RecordDecision(dir gate.Direction, state gate.State, meta gate.PacketMeta, action gate.Action) {
	for _, r := range f {
		r.RecordDecision(dir, state, meta, action)
	}
}

// decisionRecorder builds the interceptor's recorder from the configured
// one and, when event capture is enabled, the packet tap.
func (e *Engine) decisionRecorder() gate.DecisionRecorder {
	var f decisionFanout
	if e.cfg.DecisionRecorder != nil {
		f = append(f, e.cfg.DecisionRecorder)
	}
	if e.cfg.EventLogger != nil {
		f = append(f, packetTap{e: e})
	}
	switch len(f) {
	case 0:
		return nil
	case 1:
		return f[0]
	default:
		return f
	}
}
