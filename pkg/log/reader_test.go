package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.slog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReaderIteratesEvents(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), SessionID: "run-1", Category: CategoryPacket, Packet: &PacketEvent{}},
		{Timestamp: time.Now(), SessionID: "run-1", Category: CategoryPolicy, Policy: &PolicyEvent{Kind: "THRESHOLD"}},
		{Timestamp: time.Now(), SessionID: "run-1", Category: CategoryTransition, Transition: &TransitionEvent{}},
	}
	path := createTestLogFile(t, events)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}
	for i, want := range []Category{CategoryPacket, CategoryPolicy, CategoryTransition} {
		if read[i].Category != want {
			t.Errorf("event %d: Category = %v, want %v", i, read[i].Category, want)
		}
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: base, SessionID: "aaaa-1", NodeID: "n1", Category: CategoryPacket, GateState: "ACTIVE", Packet: &PacketEvent{}},
		{Timestamp: base.Add(time.Second), SessionID: "aaaa-1", NodeID: "n1", Category: CategoryPacket, GateState: "ASLEEP", Packet: &PacketEvent{Dropped: true}},
		{Timestamp: base.Add(2 * time.Second), SessionID: "bbbb-2", NodeID: "n2", Category: CategoryCommand, GateState: "ASLEEP", Command: &CommandEvent{}},
		{Timestamp: base.Add(3 * time.Second), SessionID: "bbbb-2", NodeID: "n2", Category: CategoryTimer, GateState: "ACTIVE", Timer: &TimerEvent{}},
	}
	path := createTestLogFile(t, events)

	packet := CategoryPacket
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"All", Filter{}, 4},
		{"SessionPrefix", Filter{SessionID: "aaaa"}, 2},
		{"Node", Filter{NodeID: "n2"}, 2},
		{"Category", Filter{Category: &packet}, 2},
		{"GateState", Filter{GateState: "ASLEEP"}, 2},
		{"DroppedOnly", Filter{DroppedOnly: true}, 1},
		{"TimeWindow", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"NoMatch", Filter{NodeID: "n9"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			got, err := reader.ReadAll()
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "nope.slog")); err == nil {
		t.Error("NewReader succeeded for a missing file")
	}
}
