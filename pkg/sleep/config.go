package sleep

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/slp-mesh/slp-go/pkg/gate"
	"github.com/slp-mesh/slp-go/pkg/log"
	"github.com/slp-mesh/slp-go/pkg/policy"
)

// Timer defaults, taken from the reference node configuration: a 10 s send
// interval, the radio off for one interval, and the routing layer's 5 s
// delay before leaving.
const (
	DefaultPendingDelay  = 5 * time.Second
	DefaultSleepDuration = 10 * time.Second

	// MaxDuration bounds both timers.
	MaxDuration = 24 * time.Hour
)

// Configuration errors.
var (
	ErrInvalidDuration = errors.New("invalid timer duration")
	ErrInvalidProtocol = errors.New("invalid tracked protocol")
)

// Config is the static configuration record of an Engine.
type Config struct {
	// NodeID labels captured events (optional).
	NodeID string

	// TrackedProtocol is the transport protocol the policy reacts to.
	TrackedProtocol gate.Protocol

	// Policy selects and parameterises the policy statistic.
	Policy policy.Config

	// PendingDelay is how long the node waits in PENDING_SLEEP before
	// powering the radio off.
	PendingDelay time.Duration

	// SleepDuration is how long the radio stays off.
	SleepDuration time.Duration

	// StrictPending drops non-tracked inbound traffic in PENDING_SLEEP too.
	StrictPending bool

	// Clock schedules timers. Defaults to SystemClock.
	Clock Clock

	// Rand feeds the randomized policies. Defaults to a time-seeded source.
	Rand policy.Source

	// Logger is the optional logger for operational output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// EventLogger receives captured engine and packet events (optional).
	EventLogger log.Logger

	// Recorder receives engine activity (optional).
	Recorder Recorder

	// DecisionRecorder receives interceptor verdicts (optional).
	DecisionRecorder gate.DecisionRecorder
}

// DefaultConfig returns a Config with the reference node defaults:
// UDP traffic, the fixed-probability policy and the default timers.
func DefaultConfig() Config {
	return Config{
		TrackedProtocol: gate.ProtocolUDP,
		Policy:          policy.DefaultConfig(policy.KindProbability),
		PendingDelay:    DefaultPendingDelay,
		SleepDuration:   DefaultSleepDuration,
	}
}

// Validate checks the static parameters. Collaborators and sinks are not
// validated; nil values are allowed.
func (c Config) Validate() error {
	if c.TrackedProtocol == 0 {
		return fmt.Errorf("%w: next header 0 is not a transport protocol", ErrInvalidProtocol)
	}
	if err := validDuration("pending delay", c.PendingDelay); err != nil {
		return err
	}
	if err := validDuration("sleep duration", c.SleepDuration); err != nil {
		return err
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	return nil
}

func validDuration(name string, d time.Duration) error {
	if d <= 0 || d > MaxDuration {
		return fmt.Errorf("%w: %s %v not in (0, %v]", ErrInvalidDuration, name, d, MaxDuration)
	}
	return nil
}
