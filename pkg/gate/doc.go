// Package gate implements the packet interceptor that sits between the
// network stack and protocol dispatch on a duty-cycling mesh node.
//
// The interceptor is a pair of pure decision functions. For every packet it
// reads the current gate state and returns either ActionProcess or
// ActionDrop. It never mutates the packet and never changes the gate state;
// the only side effect is forwarding an observation for the tracked
// transport protocol to the sleep engine while the node is active.
//
// # Gate States
//
//   - ACTIVE: every packet is processed
//   - PENDING_SLEEP: outbound traffic is dropped, inbound traffic of the
//     tracked protocol is dropped, other inbound traffic (routing control)
//     is still processed so the node can complete a graceful leave
//   - ASLEEP: every packet is dropped
//
// # Registration
//
// Processor mirrors the input/output hook pair a host stack calls before
// dispatch and before transmission. Chain runs registered processors in
// order and stops at the first drop.
package gate
