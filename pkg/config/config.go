package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slp-mesh/slp-go/pkg/gate"
	"github.com/slp-mesh/slp-go/pkg/policy"
	"github.com/slp-mesh/slp-go/pkg/sleep"
)

// Config is the node configuration file.
type Config struct {
	NodeID          string        `yaml:"node_id"`
	TrackedProtocol string        `yaml:"tracked_protocol"`
	Policy          Policy        `yaml:"policy"`
	PendingDelay    time.Duration `yaml:"pending_delay"`
	SleepDuration   time.Duration `yaml:"sleep_duration"`
	StrictPending   bool          `yaml:"strict_pending"`

	Log         Log        `yaml:"log"`
	ProtocolLog string     `yaml:"protocol_log"`
	MetricsAddr string     `yaml:"metrics_addr"`
	Simulation  Simulation `yaml:"simulation"`
}

// Policy selects the sleep policy. Parameters a kind does not use are
// ignored.
type Policy struct {
	Kind            string  `yaml:"kind"`
	Threshold       uint32  `yaml:"threshold"`
	Probability     float64 `yaml:"probability"`
	BaseProbability float64 `yaml:"base_probability"`
	Multiplier      float64 `yaml:"multiplier"`
}

// Log configures operational logging. An empty File logs to stderr.
type Log struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Simulation configures the simulated mesh the node command runs against.
type Simulation struct {
	// SendInterval is the mean gap between generated packets.
	SendInterval time.Duration `yaml:"send_interval"`

	// Neighbors is the number of simulated peers.
	Neighbors int `yaml:"neighbors"`

	// ControlRatio is the share of generated inbound traffic that is
	// control traffic (ICMPv6) rather than the tracked protocol.
	ControlRatio float64 `yaml:"control_ratio"`

	// Seed makes the generated traffic reproducible. Zero uses the clock.
	Seed int64 `yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	pc := policy.DefaultConfig(policy.KindProbability)
	return Config{
		TrackedProtocol: "udp",
		Policy: Policy{
			Kind:            "probability",
			Threshold:       policy.DefaultThreshold,
			Probability:     pc.Probability,
			BaseProbability: policy.DefaultBaseProbability,
			Multiplier:      policy.DefaultMultiplier,
		},
		PendingDelay:  sleep.DefaultPendingDelay,
		SleepDuration: sleep.DefaultSleepDuration,
		Log: Log{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Simulation: Simulation{
			SendInterval: sleep.DefaultSleepDuration,
			Neighbors:    3,
			ControlRatio: 0.2,
		},
	}
}

// LoadError reports a configuration file that could not be used.
type LoadError struct {
	// File is the path of the file, empty when parsing from memory.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File == "" {
		return msg
	}
	return e.File + ": " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &LoadError{Message: "failed to parse YAML", Cause: err}
	}

	if _, err := cfg.Engine(); err != nil {
		return Config{}, &LoadError{Message: "invalid configuration", Cause: err}
	}
	return cfg, nil
}

// Load reads and parses a configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return Config{}, le
		}
		return Config{}, &LoadError{File: path, Message: err.Error()}
	}
	return cfg, nil
}

// PolicyConfig converts the policy section.
func (c Config) PolicyConfig() (policy.Config, error) {
	kind, err := policy.ParseKind(c.Policy.Kind)
	if err != nil {
		return policy.Config{}, err
	}
	pc := policy.Config{
		Kind:            kind,
		Threshold:       c.Policy.Threshold,
		Probability:     c.Policy.Probability,
		BaseProbability: c.Policy.BaseProbability,
		Multiplier:      c.Policy.Multiplier,
	}
	if err := pc.Validate(); err != nil {
		return policy.Config{}, err
	}
	return pc, nil
}

// Engine converts the file into an engine configuration. Collaborators,
// sinks and the clock are left for the caller to set.
func (c Config) Engine() (sleep.Config, error) {
	proto, err := gate.ParseProtocol(c.TrackedProtocol)
	if err != nil {
		return sleep.Config{}, fmt.Errorf("tracked_protocol: %w", err)
	}
	pc, err := c.PolicyConfig()
	if err != nil {
		return sleep.Config{}, fmt.Errorf("policy: %w", err)
	}

	sc := sleep.Config{
		NodeID:          c.NodeID,
		TrackedProtocol: proto,
		Policy:          pc,
		PendingDelay:    c.PendingDelay,
		SleepDuration:   c.SleepDuration,
		StrictPending:   c.StrictPending,
	}
	if err := sc.Validate(); err != nil {
		return sleep.Config{}, err
	}
	return sc, nil
}
