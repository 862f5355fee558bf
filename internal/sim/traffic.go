package sim

import (
	"context"
	"log/slog"
	"math/rand"
	"net/netip"
	"sync"
	"time"

	"github.com/slp-mesh/slp-go/pkg/gate"
)

// TrafficConfig configures a traffic generator.
type TrafficConfig struct {
	// Self is the simulated node's own address.
	Self netip.Addr

	// Neighbors is the number of peers sending to this node.
	Neighbors int

	// Interval is the mean gap between rounds; each round is jittered by
	// up to half an interval.
	Interval time.Duration

	// ControlRatio is the share of inbound packets that are ICMPv6 control
	// traffic rather than the tracked protocol.
	ControlRatio float64

	// Tracked is the protocol of data traffic.
	Tracked gate.Protocol

	// Seed makes the traffic reproducible. Zero seeds from the clock.
	Seed int64

	// Logger is optional.
	Logger *slog.Logger
}

// TrafficStats counts what the generator produced and what the gate let
// through.
type TrafficStats struct {
	Rounds            uint64
	InboundSent       uint64
	InboundDelivered  uint64
	OutboundSent      uint64
	OutboundDelivered uint64
}

// Traffic generates inbound packets from neighbours and outbound packets
// to the root, and pushes them through a gate.Processor.
type Traffic struct {
	cfg  TrafficConfig
	proc gate.Processor

	mu    sync.Mutex
	rng   *rand.Rand
	stats TrafficStats
}

// NewTraffic creates a generator feeding proc.
func NewTraffic(proc gate.Processor, cfg TrafficConfig) *Traffic {
	if cfg.Neighbors <= 0 {
		cfg.Neighbors = 1
	}
	if !cfg.Self.IsValid() {
		cfg.Self = NodeAddr(2)
	}
	if cfg.Tracked == 0 {
		cfg.Tracked = gate.ProtocolUDP
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Traffic{
		cfg:  cfg,
		proc: proc,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Round generates one inbound packet from a random neighbour and one
// outbound data packet to the root.
func (t *Traffic) Round() {
	t.mu.Lock()
	in := gate.PacketMeta{
		Protocol:    t.cfg.Tracked,
		Source:      NodeAddr(3 + t.rng.Intn(t.cfg.Neighbors)),
		Destination: t.cfg.Self,
		Length:      32 + t.rng.Intn(64),
	}
	if t.rng.Float64() < t.cfg.ControlRatio {
		in.Protocol = gate.ProtocolICMPv6
	}
	t.mu.Unlock()

	out := gate.PacketMeta{
		Protocol:    t.cfg.Tracked,
		Source:      t.cfg.Self,
		Destination: RootAddr,
		Length:      32,
	}

	inAction := t.proc.ClassifyInbound(in)
	outAction := t.proc.ClassifyOutbound(out)

	t.mu.Lock()
	t.stats.Rounds++
	t.stats.InboundSent++
	t.stats.OutboundSent++
	if inAction == gate.ActionProcess {
		t.stats.InboundDelivered++
	}
	if outAction == gate.ActionProcess {
		t.stats.OutboundDelivered++
	}
	t.mu.Unlock()

	if t.cfg.Logger != nil {
		t.cfg.Logger.Debug("traffic round",
			"inProto", in.Protocol.String(),
			"in", inAction.String(),
			"out", outAction.String())
	}
}

// Inject classifies one inbound packet of the given protocol from a random
// neighbour and returns the verdict.
func (t *Traffic) Inject(proto gate.Protocol) gate.Action {
	t.mu.Lock()
	meta := gate.PacketMeta{
		Protocol:    proto,
		Source:      NodeAddr(3 + t.rng.Intn(t.cfg.Neighbors)),
		Destination: t.cfg.Self,
		Length:      48,
	}
	t.mu.Unlock()

	action := t.proc.ClassifyInbound(meta)

	t.mu.Lock()
	t.stats.InboundSent++
	if action == gate.ActionProcess {
		t.stats.InboundDelivered++
	}
	t.mu.Unlock()
	return action
}

// Send classifies one outbound packet of the given protocol to the root.
func (t *Traffic) Send(proto gate.Protocol) gate.Action {
	action := t.proc.ClassifyOutbound(gate.PacketMeta{
		Protocol:    proto,
		Source:      t.cfg.Self,
		Destination: RootAddr,
		Length:      32,
	})

	t.mu.Lock()
	t.stats.OutboundSent++
	if action == gate.ActionProcess {
		t.stats.OutboundDelivered++
	}
	t.mu.Unlock()
	return action
}

// Stats returns the generator counters.
func (t *Traffic) Stats() TrafficStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Run generates rounds until ctx is cancelled.
func (t *Traffic) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(t.nextDelay())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			t.Round()
		}
	}
}

func (t *Traffic) nextDelay() time.Duration {
	if t.cfg.Interval <= 0 {
		return time.Second
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	half := int64(t.cfg.Interval / 2)
	if half <= 0 {
		return t.cfg.Interval
	}
	return t.cfg.Interval - time.Duration(half) + time.Duration(t.rng.Int63n(2*half))
}
