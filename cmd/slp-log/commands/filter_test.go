package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/slp-mesh/slp-go/pkg/log"
)

func readBack(t *testing.T, path string) []log.Event {
	t.Helper()
	r, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer r.Close()
	events, err := r.ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return events
}

func TestRunFilter(t *testing.T) {
	path := writeLog(t, sampleEvents())

	tests := []struct {
		name  string
		opts  FilterOptions
		count int
	}{
		{"session prefix", FilterOptions{SessionID: "3f2a"}, 11},
		{"other session", FilterOptions{SessionID: "ffff"}, 0},
		{"node", FilterOptions{NodeID: "node-2"}, 11},
		{"category", FilterOptions{Category: "command"}, 2},
		{"state", FilterOptions{State: "pending-sleep"}, 3},
		{"dropped", FilterOptions{DroppedOnly: true}, 1},
		{"time window", FilterOptions{TimeStart: "2026-01-28T10:15:38Z", TimeEnd: "2026-01-28T10:15:48Z"}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Output = filepath.Join(t.TempDir(), "filtered.slog")

			var buf bytes.Buffer
			if err := RunFilter(path, tt.opts, &buf); err != nil {
				t.Fatalf("RunFilter: %v", err)
			}
			if got := len(readBack(t, tt.opts.Output)); got != tt.count {
				t.Errorf("got %d events, want %d", got, tt.count)
			}
			if !strings.Contains(buf.String(), "Filtered") {
				t.Errorf("expected summary line, got %q", buf.String())
			}
		})
	}
}

func TestRunFilterInvalidOptions(t *testing.T) {
	path := writeLog(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.slog")

	for _, opts := range []FilterOptions{
		{Output: out, TimeStart: "yesterday"},
		{Output: out, TimeEnd: "tomorrow"},
		{Output: out, Category: "frame"},
		{Output: out, State: "dozing"},
	} {
		var buf bytes.Buffer
		if err := RunFilter(path, opts, &buf); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}
