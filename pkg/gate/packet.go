package gate

import "net/netip"

// PacketMeta carries the fields of a packet the interceptor decides on.
// It is passed by value; hooks never modify it.
type PacketMeta struct {
	// Protocol is the transport protocol (last IPv6 next-header).
	Protocol Protocol

	// Source is the IPv6 source address.
	Source netip.Addr

	// Destination is the IPv6 destination address.
	Destination netip.Addr

	// Length is the packet length in bytes (informational).
	Length int
}
