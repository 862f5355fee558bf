// Command slp-node runs a sleep policy engine against a simulated mesh.
//
// The node generates neighbour traffic, pushes every packet through the
// engine's interceptor and duty-cycles a simulated radio according to the
// selected policy.
//
// Usage:
//
//	slp-node [flags]
//
// Flags:
//
//	-config string        Configuration file path (YAML)
//	-policy string        Sleep policy: none, threshold, randomized-threshold, probability, cumulative-probability
//	-threshold uint       Packet threshold for the threshold policies
//	-prob float           Firing probability for the probability policy
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-log-format string    Log format: text, json (default "text")
//	-log-file string      Write logs to a rotating file instead of stderr
//	-protocol-log string  File path for engine event logging (CBOR format)
//	-metrics-addr string  Serve Prometheus metrics on this address
//	-interactive          Enable interactive command mode
//
// Examples:
//
//	# Run with the threshold policy and watch transitions
//	slp-node -policy threshold -threshold 5 -log-level debug
//
//	# Capture engine events for slp-log
//	slp-node -config node.yaml -protocol-log node.slog
//
//	# Drive traffic by hand
//	slp-node -interactive -metrics-addr :9100
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/slp-mesh/slp-go/cmd/slp-node/interactive"
	"github.com/slp-mesh/slp-go/internal/sim"
	"github.com/slp-mesh/slp-go/pkg/config"
	slplog "github.com/slp-mesh/slp-go/pkg/log"
	"github.com/slp-mesh/slp-go/pkg/metrics"
	"github.com/slp-mesh/slp-go/pkg/sleep"
)

// Flags holds the command-line settings. Flags that were set override the
// configuration file.
type Flags struct {
	ConfigFile  string
	Policy      string
	Threshold   uint
	Probability float64
	LogLevel    string
	LogFormat   string
	LogFile     string
	ProtocolLog string
	MetricsAddr string
	Interactive bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&flags.Policy, "policy", "", "Sleep policy: none, threshold, randomized-threshold, probability, cumulative-probability")
	flag.UintVar(&flags.Threshold, "threshold", 0, "Packet threshold for the threshold policies")
	flag.Float64Var(&flags.Probability, "prob", 0, "Firing probability for the probability policy")
	flag.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&flags.LogFormat, "log-format", "text", "Log format: text, json")
	flag.StringVar(&flags.LogFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	flag.StringVar(&flags.ProtocolLog, "protocol-log", "", "File path for engine event logging (CBOR format)")
	flag.StringVar(&flags.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Enable interactive command mode")
}

func main() {
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := loadConfig(flags, set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, flags.Interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were set on the command line.
func loadConfig(f Flags, set map[string]bool) (config.Config, error) {
	cfg := config.Default()
	if f.ConfigFile != "" {
		var err error
		cfg, err = config.Load(f.ConfigFile)
		if err != nil {
			return config.Config{}, err
		}
	}

	if set["policy"] {
		cfg.Policy.Kind = f.Policy
	}
	if set["threshold"] {
		cfg.Policy.Threshold = uint32(f.Threshold)
	}
	if set["prob"] {
		cfg.Policy.Probability = f.Probability
	}
	if set["log-level"] || cfg.Log.Level == "" {
		cfg.Log.Level = f.LogLevel
	}
	if set["log-format"] || cfg.Log.Format == "" {
		cfg.Log.Format = f.LogFormat
	}
	if set["log-file"] {
		cfg.Log.File = f.LogFile
	}
	if set["protocol-log"] {
		cfg.ProtocolLog = f.ProtocolLog
	}
	if set["metrics-addr"] {
		cfg.MetricsAddr = f.MetricsAddr
	}

	if _, err := cfg.Engine(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(cfg config.Config, interactiveMode bool) error {
	// Log output is redirected through readline once the shell exists.
	out := &switchWriter{w: os.Stderr}
	logger, closeLog, err := newLogger(cfg.Log, out)
	if err != nil {
		return err
	}
	defer closeLog()

	engineCfg, err := cfg.Engine()
	if err != nil {
		return err
	}
	engineCfg.Logger = logger

	var sinks []slplog.Logger
	if cfg.ProtocolLog != "" {
		protocolLogger, err := slplog.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			return fmt.Errorf("failed to create protocol logger: %w", err)
		}
		defer protocolLogger.Close()
		sinks = append(sinks, protocolLogger)
		logger.Info("protocol logging enabled", "path", cfg.ProtocolLog)
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		sinks = append(sinks, slplog.NewSlogAdapter(logger))
	}
	if len(sinks) > 0 {
		engineCfg.EventLogger = slplog.NewMultiLogger(sinks...)
	}

	var server *http.Server
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		rec := metrics.NewRecorder(reg)
		engineCfg.Recorder = rec
		engineCfg.DecisionRecorder = rec

		mux := http.NewServeMux()
		mux.Handle("/metrics", rec.Handler())
		server = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("serving metrics", "addr", cfg.MetricsAddr)
	}

	mesh := sim.NewMesh(logger)
	radio := sim.NewRadio(nil, func(on bool) {
		if on {
			mesh.Rejoin()
		}
	}, logger)

	engine, err := sleep.NewEngine(engineCfg, mesh, radio)
	if err != nil {
		return err
	}
	defer engine.Close()

	logger.Info("sleep engine started",
		"session", engine.SessionID(),
		"policy", engineCfg.Policy.Kind.String(),
		"tracked", engineCfg.TrackedProtocol.String(),
		"pendingDelay", engineCfg.PendingDelay,
		"sleepDuration", engineCfg.SleepDuration)

	traffic := sim.NewTraffic(engine.Interceptor(), sim.TrafficConfig{
		Neighbors:    cfg.Simulation.Neighbors,
		Interval:     cfg.Simulation.SendInterval,
		ControlRatio: cfg.Simulation.ControlRatio,
		Tracked:      engineCfg.TrackedProtocol,
		Seed:         cfg.Simulation.Seed,
		Logger:       logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if interactiveMode {
		shell, err := interactive.New(engine, traffic, radio, mesh)
		if err != nil {
			return fmt.Errorf("failed to create interactive shell: %w", err)
		}
		out.Set(shell.Stderr())
		go shell.Run(ctx, cancel)
	} else {
		go traffic.Run(ctx)
		go runStatusLoop(ctx, logger, engine, radio)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
	}

	cancel()
	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = server.Shutdown(shutdownCtx)
		shutdownCancel()
	}

	snap := engine.Snapshot()
	logger.Info("shutting down",
		"state", snap.State.String(),
		"cycles", snap.Cycles,
		"dutyCycle", radio.Stats().DutyCycle)
	return nil
}

// runStatusLoop logs a summary line every 30 seconds.
func runStatusLoop(ctx context.Context, logger *slog.Logger, engine *sleep.Engine, radio *sim.Radio) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := engine.Snapshot()
			logger.Info("status",
				"state", snap.State.String(),
				"transitions", snap.Transitions,
				"cycles", snap.Cycles,
				"inDropped", snap.Packets.InboundDropped,
				"outDropped", snap.Packets.OutboundDropped,
				"dutyCycle", radio.Stats().DutyCycle)
		}
	}
}
