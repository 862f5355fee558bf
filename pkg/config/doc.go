// Package config loads node configuration from YAML files.
//
// Missing keys keep their defaults, durations are Go duration strings
// ("5s", "1m30s") and unknown keys are rejected:
//
//	node_id: node-2
//	tracked_protocol: udp
//	policy:
//	  kind: cumulative-probability
//	  base_probability: 0.03
//	  multiplier: 1.5
//	pending_delay: 5s
//	sleep_duration: 10s
//	log:
//	  level: debug
//	  file: /var/log/slp-node.log
package config
