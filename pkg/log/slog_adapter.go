package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger. Packet and policy events are
// logged at Debug, everything else at Info.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", shortID(event.SessionID)),
		slog.String("category", event.Category.String()),
	}
	if event.NodeID != "" {
		attrs = append(attrs, slog.String("node", event.NodeID))
	}
	if event.GateState != "" {
		attrs = append(attrs, slog.String("gate", event.GateState))
	}

	level := slog.LevelInfo

	switch {
	case event.Packet != nil:
		level = slog.LevelDebug
		attrs = append(attrs,
			slog.String("direction", event.Packet.Direction.String()),
			slog.Int("proto", int(event.Packet.Protocol)),
			slog.String("src", event.Packet.Source),
			slog.Bool("dropped", event.Packet.Dropped),
		)
	case event.Policy != nil:
		level = slog.LevelDebug
		attrs = append(attrs,
			slog.String("policy", event.Policy.Kind),
			slog.Bool("fired", event.Policy.Fired),
		)
		if event.Policy.Threshold > 0 {
			attrs = append(attrs,
				slog.Uint64("count", uint64(event.Policy.Count)),
				slog.Uint64("threshold", uint64(event.Policy.Threshold)),
			)
		}
		if event.Policy.Probability > 0 {
			attrs = append(attrs, slog.Float64("p", event.Policy.Probability))
		}
	case event.Transition != nil:
		attrs = append(attrs,
			slog.String("old_state", event.Transition.OldState),
			slog.String("new_state", event.Transition.NewState),
			slog.String("trigger", event.Transition.Trigger),
		)
		if event.Transition.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Transition.Reason))
		}
	case event.Command != nil:
		attrs = append(attrs,
			slog.String("command", event.Command.Command.String()),
			slog.Bool("delivered", event.Command.Delivered),
		)
	case event.Timer != nil:
		if event.Timer.Action == TimerStarted || event.Timer.Action == TimerStopped {
			level = slog.LevelDebug
		}
		attrs = append(attrs,
			slog.String("timer", event.Timer.Timer),
			slog.String("action", event.Timer.Action.String()),
		)
		if event.Timer.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", event.Timer.Duration))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "sleep-engine", attrs...)
}

// shortID returns the first 8 characters of a session ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var _ Logger = (*SlogAdapter)(nil)
