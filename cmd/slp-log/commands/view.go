package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/slp-mesh/slp-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Category    *log.Category
	GateState   string
	DroppedOnly bool
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{
		Category:    f.Category,
		GateState:   f.GateState,
		DroppedOnly: f.DroppedOnly,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session] STATE CATEGORY
	ts := event.Timestamp.UTC().Format(timestampLayout)
	header := fmt.Sprintf("%s [%s]", ts, shortenSessionID(event.SessionID))
	if event.NodeID != "" {
		header += " " + event.NodeID
	}
	fmt.Fprintf(w, "%s %-13s %s\n", header, event.GateState, event.Category)

	switch {
	case event.Packet != nil:
		formatPacketDetails(w, event.Packet)
	case event.Policy != nil:
		formatPolicyDetails(w, event.Policy)
	case event.Transition != nil:
		formatTransitionDetails(w, event.Transition)
	case event.Command != nil:
		formatCommandDetails(w, event.Command)
	case event.Timer != nil:
		formatTimerDetails(w, event.Timer)
	}

	fmt.Fprintln(w)
}

func formatPacketDetails(w io.Writer, p *log.PacketEvent) {
	verdict := "PROCESS"
	if p.Dropped {
		verdict = "DROP"
	}
	fmt.Fprintf(w, "  %s proto %d -> %s\n", p.Direction, p.Protocol, verdict)
	if p.Source != "" || p.Destination != "" {
		fmt.Fprintf(w, "  %s -> %s\n", p.Source, p.Destination)
	}
	if p.Length > 0 {
		fmt.Fprintf(w, "  Length: %d bytes\n", p.Length)
	}
}

func formatPolicyDetails(w io.Writer, p *log.PolicyEvent) {
	fmt.Fprintf(w, "  Policy: %s", p.Kind)
	if p.Fired {
		fmt.Fprint(w, " FIRED")
	}
	fmt.Fprintln(w)
	if p.Threshold > 0 {
		fmt.Fprintf(w, "  Count: %d/%d\n", p.Count, p.Threshold)
	}
	if p.Probability > 0 {
		fmt.Fprintf(w, "  Probability: %.4f\n", p.Probability)
	}
}

func formatTransitionDetails(w io.Writer, t *log.TransitionEvent) {
	fmt.Fprintf(w, "  %s -> %s (%s)\n", t.OldState, t.NewState, t.Trigger)
	if t.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", t.Reason)
	}
}

func formatCommandDetails(w io.Writer, c *log.CommandEvent) {
	fmt.Fprintf(w, "  Command: %s", c.Command)
	if !c.Delivered {
		fmt.Fprint(w, " (not delivered)")
	}
	fmt.Fprintln(w)
}

func formatTimerDetails(w io.Writer, t *log.TimerEvent) {
	fmt.Fprintf(w, "  Timer: %s %s", t.Timer, t.Action)
	if t.Duration > 0 {
		fmt.Fprintf(w, " (%s)", formatDuration(t.Duration))
	}
	fmt.Fprintln(w)
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
