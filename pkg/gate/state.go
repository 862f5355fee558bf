package gate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownProtocol is returned by ParseProtocol for unrecognised names.
var ErrUnknownProtocol = errors.New("unknown transport protocol")

// State is the gate state controlling whether packets are forwarded.
type State uint8

const (
	// StateActive is the initial state; the radio is on and all traffic flows.
	StateActive State = iota

	// StatePendingSleep is entered when the policy fires; the node is
	// leaving the mesh and waits for the pending delay before powering down.
	StatePendingSleep

	// StateAsleep means the radio is off.
	StateAsleep
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StatePendingSleep:
		return "PENDING_SLEEP"
	case StateAsleep:
		return "ASLEEP"
	default:
		return "UNKNOWN"
	}
}

// Action is the verdict for a single packet.
type Action uint8

const (
	// ActionProcess lets the packet continue through the stack.
	ActionProcess Action = iota

	// ActionDrop suppresses all further processing of the packet.
	ActionDrop
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionProcess:
		return "PROCESS"
	case ActionDrop:
		return "DROP"
	default:
		return "UNKNOWN"
	}
}

// Direction indicates packet flow relative to the node.
type Direction uint8

const (
	// DirectionInbound is a packet received from the radio.
	DirectionInbound Direction = iota

	// DirectionOutbound is a packet about to be transmitted.
	DirectionOutbound
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionInbound:
		return "IN"
	case DirectionOutbound:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Protocol is the IPv6 next-header value of the packet's transport layer.
type Protocol uint8

// Well-known transport protocols.
const (
	ProtocolTCP    Protocol = 6
	ProtocolUDP    Protocol = 17
	ProtocolICMPv6 Protocol = 58
)

// String returns the protocol name, or its number if unnamed.
func (p Protocol) String() string {
	switch p {
	case ProtocolTCP:
		return "TCP"
	case ProtocolUDP:
		return "UDP"
	case ProtocolICMPv6:
		return "ICMPv6"
	default:
		return strconv.Itoa(int(p))
	}
}

// ParseProtocol parses a protocol name (udp, tcp, icmpv6) or a decimal
// next-header number in the range 0-255.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "udp":
		return ProtocolUDP, nil
	case "tcp":
		return ProtocolTCP, nil
	case "icmpv6", "icmp6":
		return ProtocolICMPv6, nil
	}

	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
	}
	return Protocol(n), nil
}
