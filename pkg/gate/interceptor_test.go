package gate

import (
	"bytes"
	"log/slog"
	"net/netip"
	"strings"
	"testing"
)

type fixedState struct {
	state State
}

func (f *fixedState) State() State { return f.state }

type recordingObserver struct {
	seen []PacketMeta
}

func (r *recordingObserver) Observe(meta PacketMeta) {
	r.seen = append(r.seen, meta)
}

type recordedDecision struct {
	dir    Direction
	state  State
	proto  Protocol
	action Action
}

type recordingRecorder struct {
	decisions []recordedDecision
}

func (r *recordingRecorder) RecordDecision(dir Direction, state State, meta PacketMeta, action Action) {
	r.decisions = append(r.decisions, recordedDecision{dir, state, meta.Protocol, action})
}

func testPacket(proto Protocol) PacketMeta {
	return PacketMeta{
		Protocol:    proto,
		Source:      netip.MustParseAddr("fd00::212:7402:2:202"),
		Destination: netip.MustParseAddr("fd00::212:7401:1:101"),
		Length:      64,
	}
}

func TestDecideMatrix(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		dir    Direction
		proto  Protocol
		strict bool
		want   Action
	}{
		{"ActiveInboundTracked", StateActive, DirectionInbound, ProtocolUDP, false, ActionProcess},
		{"ActiveInboundOther", StateActive, DirectionInbound, ProtocolICMPv6, false, ActionProcess},
		{"ActiveOutboundTracked", StateActive, DirectionOutbound, ProtocolUDP, false, ActionProcess},
		{"ActiveOutboundOther", StateActive, DirectionOutbound, ProtocolICMPv6, false, ActionProcess},
		{"PendingInboundTracked", StatePendingSleep, DirectionInbound, ProtocolUDP, false, ActionDrop},
		{"PendingInboundControl", StatePendingSleep, DirectionInbound, ProtocolICMPv6, false, ActionProcess},
		{"PendingInboundControlStrict", StatePendingSleep, DirectionInbound, ProtocolICMPv6, true, ActionDrop},
		{"PendingOutboundTracked", StatePendingSleep, DirectionOutbound, ProtocolUDP, false, ActionDrop},
		{"PendingOutboundControl", StatePendingSleep, DirectionOutbound, ProtocolICMPv6, false, ActionDrop},
		{"AsleepInboundTracked", StateAsleep, DirectionInbound, ProtocolUDP, false, ActionDrop},
		{"AsleepInboundControl", StateAsleep, DirectionInbound, ProtocolICMPv6, false, ActionDrop},
		{"AsleepOutbound", StateAsleep, DirectionOutbound, ProtocolTCP, false, ActionDrop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.state, tt.dir, tt.proto, ProtocolUDP, tt.strict)
			if got != tt.want {
				t.Errorf("Decide(%v, %v, %v) = %v, want %v", tt.state, tt.dir, tt.proto, got, tt.want)
			}
		})
	}
}

func TestInterceptorForwardsTrackedInboundWhileActive(t *testing.T) {
	state := &fixedState{state: StateActive}
	obs := &recordingObserver{}
	ic := NewInterceptor(state, obs, Config{Tracked: ProtocolUDP})

	pkt := testPacket(ProtocolUDP)
	if got := ic.ClassifyInbound(pkt); got != ActionProcess {
		t.Fatalf("ClassifyInbound() = %v, want PROCESS", got)
	}
	if got := ic.ClassifyInbound(testPacket(ProtocolICMPv6)); got != ActionProcess {
		t.Fatalf("ClassifyInbound(icmpv6) = %v, want PROCESS", got)
	}
	if got := ic.ClassifyOutbound(pkt); got != ActionProcess {
		t.Fatalf("ClassifyOutbound() = %v, want PROCESS", got)
	}

	if len(obs.seen) != 1 {
		t.Fatalf("observer saw %d packets, want 1", len(obs.seen))
	}
	if obs.seen[0] != pkt {
		t.Errorf("observed packet = %+v, want %+v", obs.seen[0], pkt)
	}
}

func TestInterceptorDoesNotObserveOutsideActive(t *testing.T) {
	for _, s := range []State{StatePendingSleep, StateAsleep} {
		t.Run(s.String(), func(t *testing.T) {
			obs := &recordingObserver{}
			ic := NewInterceptor(&fixedState{state: s}, obs, Config{Tracked: ProtocolUDP})

			if got := ic.ClassifyInbound(testPacket(ProtocolUDP)); got != ActionDrop {
				t.Errorf("ClassifyInbound() = %v, want DROP", got)
			}
			if got := ic.ClassifyOutbound(testPacket(ProtocolUDP)); got != ActionDrop {
				t.Errorf("ClassifyOutbound() = %v, want DROP", got)
			}
			if len(obs.seen) != 0 {
				t.Errorf("observer saw %d packets, want 0", len(obs.seen))
			}
		})
	}
}

func TestInterceptorNilObserver(t *testing.T) {
	ic := NewInterceptor(&fixedState{state: StateActive}, nil, Config{Tracked: ProtocolUDP})

	if got := ic.ClassifyInbound(testPacket(ProtocolUDP)); got != ActionProcess {
		t.Errorf("ClassifyInbound() = %v, want PROCESS", got)
	}
	if ic.Counters().Observed != 0 {
		t.Errorf("Observed = %d, want 0", ic.Counters().Observed)
	}
}

func TestInterceptorCounters(t *testing.T) {
	state := &fixedState{state: StateActive}
	ic := NewInterceptor(state, &recordingObserver{}, Config{Tracked: ProtocolUDP})

	ic.ClassifyInbound(testPacket(ProtocolUDP))
	ic.ClassifyOutbound(testPacket(ProtocolUDP))

	state.state = StatePendingSleep
	ic.ClassifyInbound(testPacket(ProtocolUDP))
	ic.ClassifyInbound(testPacket(ProtocolICMPv6))
	ic.ClassifyOutbound(testPacket(ProtocolICMPv6))

	got := ic.Counters()
	want := CountersSnapshot{
		InboundProcessed:  2,
		InboundDropped:    1,
		OutboundProcessed: 1,
		OutboundDropped:   1,
		Observed:          1,
	}
	if got != want {
		t.Errorf("Counters() = %+v, want %+v", got, want)
	}

	ic.ResetCounters()
	if got := ic.Counters(); got != (CountersSnapshot{}) {
		t.Errorf("Counters() after reset = %+v, want zero", got)
	}
}

func TestInterceptorRecordsDecisions(t *testing.T) {
	rec := &recordingRecorder{}
	ic := NewInterceptor(&fixedState{state: StateAsleep}, nil, Config{
		Tracked:  ProtocolUDP,
		Recorder: rec,
	})

	ic.ClassifyInbound(testPacket(ProtocolUDP))
	ic.ClassifyOutbound(testPacket(ProtocolTCP))

	want := []recordedDecision{
		{DirectionInbound, StateAsleep, ProtocolUDP, ActionDrop},
		{DirectionOutbound, StateAsleep, ProtocolTCP, ActionDrop},
	}
	if len(rec.decisions) != len(want) {
		t.Fatalf("got %d decisions, want %d", len(rec.decisions), len(want))
	}
	for i := range want {
		if rec.decisions[i] != want[i] {
			t.Errorf("decision %d = %+v, want %+v", i, rec.decisions[i], want[i])
		}
	}
}

func TestInterceptorLogsCancelledPackets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ic := NewInterceptor(&fixedState{state: StateAsleep}, nil, Config{
		Tracked: ProtocolUDP,
		Logger:  logger,
	})
	ic.ClassifyInbound(testPacket(ProtocolUDP))

	out := buf.String()
	for _, want := range []string{"packet cancelled", "direction=IN", "state=ASLEEP", "proto=UDP", "src=fd00::212:7402:2:202"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		in      string
		want    Protocol
		wantErr bool
	}{
		{"udp", ProtocolUDP, false},
		{"UDP", ProtocolUDP, false},
		{"tcp", ProtocolTCP, false},
		{"icmpv6", ProtocolICMPv6, false},
		{"17", ProtocolUDP, false},
		{"255", Protocol(255), false},
		{"256", 0, true},
		{"sctp", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProtocol(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProtocol(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseProtocol(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateActive, "ACTIVE"},
		{StatePendingSleep, "PENDING_SLEEP"},
		{StateAsleep, "ASLEEP"},
		{State(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
