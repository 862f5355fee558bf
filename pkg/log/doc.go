// Package log provides structured event capture for the sleep engine.
//
// This package defines the Logger interface and Event types for recording
// what the duty-cycling core did: packet verdicts, policy evaluations, gate
// transitions, collaborator commands and timer activity. It is separate from
// operational logging (slog). Event capture gives a complete
// machine-readable trace for offline analysis of a node's sleep behaviour.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For field runs: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/slp/node.slog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys and the
// .slog extension. The slp-log CLI tool provides viewing, filtering, export
// and statistics.
package log
