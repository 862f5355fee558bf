// Package sleep implements the sleep policy engine of a duty-cycling mesh
// node.
//
// The engine owns the gate state, one policy statistic and two one-shot
// timers. Qualifying packets observed while ACTIVE feed the statistic; when
// the policy fires the node asks the mesh to let it leave, waits for the
// pending delay, powers the radio off for the sleep duration and then powers
// it on again.
//
// # Transitions
//
//	ACTIVE        --POLICY_FIRE-->           PENDING_SLEEP  LeaveNetwork, start pending delay
//	PENDING_SLEEP --PENDING_DELAY_EXPIRED--> ASLEEP         SetPower(false), start sleep duration
//	ASLEEP        --SLEEP_EXPIRED-->         ACTIVE         SetPower(true), reset policy
//	PENDING_SLEEP --FORCE_ACTIVE-->          ACTIVE         reset policy
//	ASLEEP        --FORCE_ACTIVE-->          ACTIVE         SetPower(true), reset policy
//
// Commands belong to edges, so each is issued exactly once per traversal.
// Any other (state, trigger) pair is ignored.
//
// # Timer Expiry
//
// Every scheduled timer remembers the state it was started for and the
// transition count at the time. An expiry that arrives after either has
// changed is stale and ignored; it never causes a transition or a command.
//
// # Concurrency
//
// All mutations are serialised by the engine. The gate state is also
// published atomically so the packet interceptor can read it without
// taking the engine lock.
package sleep
