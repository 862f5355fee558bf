// Package policy implements the statistics that decide when a node should
// leave the mesh and power its radio down.
//
// Exactly one Kind is active per Statistic, selected at construction:
//
//   - THRESHOLD: count qualifying packets, fire when count >= threshold
//   - RANDOMIZED_THRESHOLD: as THRESHOLD, but against an effective
//     threshold drawn once from [0, threshold) and kept until Reset
//   - PROBABILITY: fire with fixed probability p per packet
//   - CUMULATIVE_PROBABILITY: p grows by a multiplier on every packet
//     (clamped at 1.0) and returns to its base value after firing
//   - NONE: never fire
//
// A Statistic is not safe for concurrent use; the sleep engine serialises
// access to it.
package policy
