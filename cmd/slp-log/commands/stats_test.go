package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/slp-mesh/slp-go/pkg/log"
)

func TestCollect(t *testing.T) {
	path := writeLog(t, sampleEvents())

	stats, err := Collect(path)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if stats.TotalEvents != 11 {
		t.Errorf("TotalEvents = %d, want 11", stats.TotalEvents)
	}
	if stats.EventsByCategory[log.CategoryTransition] != 3 {
		t.Errorf("transitions = %d, want 3", stats.EventsByCategory[log.CategoryTransition])
	}
	if len(stats.Sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(stats.Sessions))
	}

	s := stats.Sessions[testSession]
	if s.InboundProcessed != 2 || s.OutboundDropped != 1 {
		t.Errorf("packets = %d in processed, %d out dropped", s.InboundProcessed, s.OutboundDropped)
	}
	if s.Evaluations != 1 || s.Fires != 1 {
		t.Errorf("policy = %d/%d", s.Evaluations, s.Fires)
	}
	if s.SleepCycles != 1 || s.StaleTimers != 1 || s.UndeliveredCommands != 1 {
		t.Errorf("cycles=%d stale=%d undelivered=%d", s.SleepCycles, s.StaleTimers, s.UndeliveredCommands)
	}
	if s.Transitions["PENDING_SLEEP>ASLEEP"] != 1 {
		t.Errorf("transitions = %v", s.Transitions)
	}

	want := map[string]time.Duration{
		"ACTIVE":        5 * time.Second,
		"PENDING_SLEEP": 5 * time.Second,
		"ASLEEP":        10 * time.Second,
	}
	for state, d := range want {
		if s.TimeInState[state] != d {
			t.Errorf("TimeInState[%s] = %v, want %v", state, s.TimeInState[state], d)
		}
	}
}

func TestRunStats(t *testing.T) {
	path := writeLog(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 11",
		"TRANSITION:  3",
		"Sessions: 1",
		"[3f2a9c1e] 11 events, duration 20s",
		"Node: node-2",
		"Sleep cycles: 1",
		"Stale timers: 1",
		"ASLEEP:",
		"(50.0%)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRunStatsEmptyFile(t *testing.T) {
	path := writeLog(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
