// Package metrics exposes sleep engine activity as Prometheus metrics.
//
// A Recorder implements both sleep.Recorder and gate.DecisionRecorder, so a
// single value can be set on sleep.Config.Recorder and
// sleep.Config.DecisionRecorder.
package metrics
