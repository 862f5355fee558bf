package log

import (
	"bytes"
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	original := Event{
		Timestamp: ts,
		SessionID: "5f3c2a10-9d4e-4b8a-8f11-0a2b3c4d5e6f",
		NodeID:    "node-7",
		Category:  CategoryTransition,
		GateState: "PENDING_SLEEP",
		Transition: &TransitionEvent{
			OldState: "ACTIVE",
			NewState: "PENDING_SLEEP",
			Trigger:  "POLICY_FIRE",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.SessionID != original.SessionID {
		t.Errorf("SessionID: got %q, want %q", decoded.SessionID, original.SessionID)
	}
	if decoded.Category != CategoryTransition {
		t.Errorf("Category: got %v, want TRANSITION", decoded.Category)
	}
	if decoded.Transition == nil {
		t.Fatal("Transition is nil")
	}
	if *decoded.Transition != *original.Transition {
		t.Errorf("Transition: got %+v, want %+v", *decoded.Transition, *original.Transition)
	}
	if decoded.Packet != nil || decoded.Command != nil || decoded.Timer != nil || decoded.Policy != nil {
		t.Error("unexpected payload decoded")
	}
}

func TestEventCBORDeterministic(t *testing.T) {
	event := Event{
		Timestamp: time.Unix(1700000000, 0).UTC(),
		SessionID: "s",
		Category:  CategoryPolicy,
		Policy:    &PolicyEvent{Kind: "CUMULATIVE_PROBABILITY", Probability: 0.0675},
	}

	a, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	b, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding is not deterministic")
	}

	decoded, err := DecodeEvent(a)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if decoded.Policy == nil || decoded.Policy.Probability != 0.0675 {
		t.Errorf("Policy: got %+v", decoded.Policy)
	}
}

func TestWriteEventsStream(t *testing.T) {
	events := []Event{
		{SessionID: "a", Category: CategoryCommand, Command: &CommandEvent{Command: CommandLeaveNetwork, Delivered: true}},
		{SessionID: "a", Category: CategoryTimer, Timer: &TimerEvent{Timer: "PENDING_DELAY", Action: TimerStarted, Duration: 5 * time.Second}},
	}

	var buf bytes.Buffer
	if err := WriteEvents(&buf, events); err != nil {
		t.Fatalf("WriteEvents failed: %v", err)
	}

	dec := NewDecoder(&buf)
	for i, want := range events {
		var got Event
		if err := dec.Decode(&got); err != nil {
			t.Fatalf("event %d: decode failed: %v", i, err)
		}
		if got.Category != want.Category {
			t.Errorf("event %d: Category = %v, want %v", i, got.Category, want.Category)
		}
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00, 0x01}); err == nil {
		t.Error("DecodeEvent accepted invalid CBOR")
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{CategoryPacket.String(), "PACKET"},
		{CategoryTimer.String(), "TIMER"},
		{Category(99).String(), "UNKNOWN"},
		{DirectionOut.String(), "OUT"},
		{CommandRadioOff.String(), "RADIO_OFF"},
		{TimerStale.String(), "STALE"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
