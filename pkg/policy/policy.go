package policy

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Configuration errors.
var (
	ErrUnknownKind        = errors.New("unknown policy kind")
	ErrInvalidThreshold   = errors.New("invalid policy threshold")
	ErrInvalidProbability = errors.New("invalid policy probability")
	ErrInvalidMultiplier  = errors.New("invalid policy multiplier")
)

// Defaults for each policy parameter.
const (
	DefaultThreshold       = 20
	DefaultProbability     = 0.1
	DefaultBaseProbability = 0.03
	DefaultMultiplier      = 1.5
)

// Kind selects the policy variant.
type Kind uint8

const (
	// KindNone never fires.
	KindNone Kind = iota

	// KindThreshold fires on the threshold-th qualifying packet.
	KindThreshold

	// KindRandomizedThreshold fires on a randomly drawn packet count.
	KindRandomizedThreshold

	// KindProbability fires with a fixed probability per packet.
	KindProbability

	// KindCumulativeProbability fires with a probability that grows per packet.
	KindCumulativeProbability
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindThreshold:
		return "THRESHOLD"
	case KindRandomizedThreshold:
		return "RANDOMIZED_THRESHOLD"
	case KindProbability:
		return "PROBABILITY"
	case KindCumulativeProbability:
		return "CUMULATIVE_PROBABILITY"
	default:
		return "UNKNOWN"
	}
}

// ParseKind parses a policy name as used in configuration files and flags.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return KindNone, nil
	case "threshold", "counter":
		return KindThreshold, nil
	case "randomized-threshold", "randomized_threshold", "randinit-counter":
		return KindRandomizedThreshold, nil
	case "probability", "rand":
		return KindProbability, nil
	case "cumulative-probability", "cumulative_probability", "cumul-rand":
		return KindCumulativeProbability, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Config holds the static parameters of a policy. Only the fields used by
// Kind are validated.
type Config struct {
	Kind Kind

	// Threshold is the packet count for the threshold kinds.
	Threshold uint32

	// Probability is the per-packet firing probability for KindProbability.
	Probability float64

	// BaseProbability is the starting and reset value for
	// KindCumulativeProbability.
	BaseProbability float64

	// Multiplier is applied to the cumulative probability on every packet.
	Multiplier float64
}

// DefaultConfig returns a Config for kind with default parameters.
func DefaultConfig(kind Kind) Config {
	return Config{
		Kind:            kind,
		Threshold:       DefaultThreshold,
		Probability:     DefaultProbability,
		BaseProbability: DefaultBaseProbability,
		Multiplier:      DefaultMultiplier,
	}
}

// Validate rejects parameters the selected kind cannot work with.
func (c Config) Validate() error {
	switch c.Kind {
	case KindNone:
		return nil

	case KindThreshold, KindRandomizedThreshold:
		if c.Threshold == 0 {
			return fmt.Errorf("%w: must be at least 1", ErrInvalidThreshold)
		}
		return nil

	case KindProbability:
		if !validProbability(c.Probability) {
			return fmt.Errorf("%w: %v not in [0, 1]", ErrInvalidProbability, c.Probability)
		}
		return nil

	case KindCumulativeProbability:
		if !validProbability(c.BaseProbability) || c.BaseProbability == 0 {
			return fmt.Errorf("%w: base %v not in (0, 1]", ErrInvalidProbability, c.BaseProbability)
		}
		if !(c.Multiplier >= 1) {
			return fmt.Errorf("%w: %v must be >= 1", ErrInvalidMultiplier, c.Multiplier)
		}
		return nil

	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, c.Kind)
	}
}

// validProbability also rejects NaN.
func validProbability(p float64) bool {
	return p >= 0 && p <= 1
}

// Source supplies uniformly distributed random values.
// *math/rand.Rand satisfies it.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64

	// Intn returns a value in [0, n). n must be > 0.
	Intn(n int) int
}

// NewSource returns a time-seeded Source.
func NewSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
