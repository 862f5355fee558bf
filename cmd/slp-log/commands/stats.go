package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/slp-mesh/slp-go/pkg/log"
)

var gateStates = []string{"ACTIVE", "PENDING_SLEEP", "ASLEEP"}

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Sessions         map[string]*SessionStats
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single engine run.
type SessionStats struct {
	NodeID    string
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int

	InboundProcessed  int
	InboundDropped    int
	OutboundProcessed int
	OutboundDropped   int

	Evaluations int
	Fires       int

	// Transitions counts edges by "FROM>TO".
	Transitions map[string]int
	SleepCycles int
	StaleTimers int

	UndeliveredCommands int

	// TimeInState accumulates the time spent in each gate state, measured
	// between transition events.
	TimeInState map[string]time.Duration

	state      string
	stateSince time.Time
}

func newSessionStats(event log.Event) *SessionStats {
	return &SessionStats{
		NodeID:      event.NodeID,
		FirstSeen:   event.Timestamp,
		LastSeen:    event.Timestamp,
		Transitions: make(map[string]int),
		TimeInState: make(map[string]time.Duration),
		state:       event.GateState,
		stateSince:  event.Timestamp,
	}
}

func (s *SessionStats) add(event log.Event) {
	s.Events++
	if event.Timestamp.After(s.LastSeen) {
		s.LastSeen = event.Timestamp
	}
	if s.NodeID == "" {
		s.NodeID = event.NodeID
	}

	switch {
	case event.Packet != nil:
		p := event.Packet
		switch {
		case p.Direction == log.DirectionIn && p.Dropped:
			s.InboundDropped++
		case p.Direction == log.DirectionIn:
			s.InboundProcessed++
		case p.Dropped:
			s.OutboundDropped++
		default:
			s.OutboundProcessed++
		}

	case event.Policy != nil:
		s.Evaluations++
		if event.Policy.Fired {
			s.Fires++
		}

	case event.Transition != nil:
		t := event.Transition
		s.Transitions[t.OldState+">"+t.NewState]++
		if t.OldState == "ASLEEP" && t.Trigger == "SLEEP_EXPIRED" {
			s.SleepCycles++
		}
		if !s.stateSince.IsZero() {
			s.TimeInState[t.OldState] += event.Timestamp.Sub(s.stateSince)
		}
		s.state = t.NewState
		s.stateSince = event.Timestamp

	case event.Command != nil:
		if !event.Command.Delivered {
			s.UndeliveredCommands++
		}

	case event.Timer != nil:
		if event.Timer.Action == log.TimerStale {
			s.StaleTimers++
		}
	}
}

// finish credits the time since the last transition to the current state.
func (s *SessionStats) finish() {
	if s.state != "" && s.LastSeen.After(s.stateSince) {
		s.TimeInState[s.state] += s.LastSeen.Sub(s.stateSince)
		s.stateSince = s.LastSeen
	}
}

// Collect reads the log file and aggregates its events.
func Collect(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		Sessions:         make(map[string]*SessionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		session, ok := stats.Sessions[event.SessionID]
		if !ok {
			session = newSessionStats(event)
			stats.Sessions[event.SessionID] = session
		}
		session.add(event)
	}

	for _, s := range stats.Sessions {
		s.finish()
	}
	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Sleep Engine Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryPacket, log.CategoryPolicy, log.CategoryTransition, log.CategoryCommand, log.CategoryTimer} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))

	type sessionInfo struct {
		id    string
		stats *SessionStats
	}
	sessions := make([]sessionInfo, 0, len(stats.Sessions))
	for id, s := range stats.Sessions {
		sessions = append(sessions, sessionInfo{id, s})
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
	})

	for _, si := range sessions {
		s := si.stats
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  [%s] %d events, duration %s\n",
			shortenSessionID(si.id), s.Events, s.LastSeen.Sub(s.FirstSeen).Round(time.Millisecond))
		if s.NodeID != "" {
			fmt.Fprintf(w, "           Node: %s\n", s.NodeID)
		}
		fmt.Fprintf(w, "           Inbound: %d processed, %d dropped\n", s.InboundProcessed, s.InboundDropped)
		fmt.Fprintf(w, "           Outbound: %d processed, %d dropped\n", s.OutboundProcessed, s.OutboundDropped)
		if s.Evaluations > 0 {
			fmt.Fprintf(w, "           Policy: %d evaluations, %d fired\n", s.Evaluations, s.Fires)
		}
		fmt.Fprintf(w, "           Sleep cycles: %d\n", s.SleepCycles)
		if s.StaleTimers > 0 {
			fmt.Fprintf(w, "           Stale timers: %d\n", s.StaleTimers)
		}
		if s.UndeliveredCommands > 0 {
			fmt.Fprintf(w, "           Undelivered commands: %d\n", s.UndeliveredCommands)
		}

		var total time.Duration
		for _, d := range s.TimeInState {
			total += d
		}
		if total > 0 {
			for _, state := range gateStates {
				d := s.TimeInState[state]
				fmt.Fprintf(w, "           %-14s %s (%.1f%%)\n", state+":", d.Round(time.Millisecond), 100*float64(d)/float64(total))
			}
		}
	}
}
