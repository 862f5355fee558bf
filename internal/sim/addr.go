package sim

import (
	"fmt"
	"net/netip"
)

// NodeAddr returns the simulated global address of node n, in the layout
// the reference testbed uses (fd00::212:74nn:n:nnn).
func NodeAddr(n int) netip.Addr {
	n &= 0xff
	s := fmt.Sprintf("fd00::212:74%02x:%x:%x%02x", n, n, n, n)
	return netip.MustParseAddr(s)
}

// RootAddr is the address of the simulated DODAG root (node 1).
var RootAddr = NodeAddr(1)
