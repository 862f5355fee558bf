// Package interactive provides the interactive command-line interface
// for slp-node.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/slp-mesh/slp-go/internal/sim"
	"github.com/slp-mesh/slp-go/pkg/gate"
	"github.com/slp-mesh/slp-go/pkg/policy"
	"github.com/slp-mesh/slp-go/pkg/sleep"
)

// maxBurst bounds the packet count of a single command.
const maxBurst = 10000

// Node handles interactive mode for slp-node.
type Node struct {
	engine  *sleep.Engine
	traffic *sim.Traffic
	radio   *sim.Radio
	mesh    *sim.Mesh

	rl  *readline.Instance
	out io.Writer
}

// New creates a new interactive node handler.
func New(engine *sleep.Engine, traffic *sim.Traffic, radio *sim.Radio, mesh *sim.Mesh) (*Node, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "node> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("rx", readline.PcItem("udp"), readline.PcItem("tcp"), readline.PcItem("icmpv6")),
			readline.PcItem("tx", readline.PcItem("udp"), readline.PcItem("tcp"), readline.PcItem("icmpv6")),
			readline.PcItem("burst"),
			readline.PcItem("state"),
			readline.PcItem("stats"),
			readline.PcItem("force"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	n := newNode(engine, traffic, radio, mesh, rl.Stdout())
	n.rl = rl
	return n, nil
}

func newNode(engine *sleep.Engine, traffic *sim.Traffic, radio *sim.Radio, mesh *sim.Mesh, out io.Writer) *Node {
	return &Node{
		engine:  engine,
		traffic: traffic,
		radio:   radio,
		mesh:    mesh,
		out:     out,
	}
}

// Stdout returns a writer that properly coordinates with the readline input.
func (n *Node) Stdout() io.Writer {
	return n.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (n *Node) Stderr() io.Writer {
	return n.rl.Stderr()
}

// Run starts the interactive command loop.
func (n *Node) Run(ctx context.Context, cancel context.CancelFunc) {
	defer n.rl.Close()

	n.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := n.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(n.out, "Exiting...")
			cancel()
			return
		}

		if n.Execute(line) {
			fmt.Fprintln(n.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
func (n *Node) Execute(line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		n.printHelp()

	case "rx", "in":
		n.cmdPackets(gate.DirectionInbound, args)

	case "tx", "out":
		n.cmdPackets(gate.DirectionOutbound, args)

	case "burst", "b":
		n.cmdBurst(args)

	case "state", "s":
		n.cmdState()

	case "stats":
		n.cmdStats()

	case "force", "f":
		n.cmdForce(args)

	case "quit", "exit", "q":
		return true

	default:
		fmt.Fprintf(n.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (n *Node) printHelp() {
	fmt.Fprintln(n.out, `Commands:
  rx [proto] [count]   Receive packets from a neighbour (default: tracked protocol, 1)
  tx [proto] [count]   Send packets to the root
  burst <rounds>       Generate rounds of mixed traffic
  state                Show gate state and running timer
  stats                Show policy, packet, radio and mesh counters
  force [reason]       Return to ACTIVE now
  help                 Show this help
  quit                 Exit`)
}

// cmdPackets handles rx/tx [proto] [count].
func (n *Node) cmdPackets(dir gate.Direction, args []string) {
	proto := n.engine.Config().TrackedProtocol
	count := 1

	for _, arg := range args {
		if c, err := strconv.Atoi(arg); err == nil {
			if c < 1 || c > maxBurst {
				fmt.Fprintf(n.out, "Count must be 1-%d\n", maxBurst)
				return
			}
			count = c
			continue
		}
		p, err := gate.ParseProtocol(arg)
		if err != nil {
			fmt.Fprintf(n.out, "Error: %v\n", err)
			return
		}
		proto = p
	}

	var processed, dropped int
	for i := 0; i < count; i++ {
		var action gate.Action
		if dir == gate.DirectionInbound {
			action = n.traffic.Inject(proto)
		} else {
			action = n.traffic.Send(proto)
		}
		if action == gate.ActionProcess {
			processed++
		} else {
			dropped++
		}
	}

	fmt.Fprintf(n.out, "%s %s x%d: %d processed, %d dropped (state: %s)\n",
		dir, proto, count, processed, dropped, n.engine.State())
}

func (n *Node) cmdBurst(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(n.out, "Usage: burst <rounds>")
		return
	}
	rounds, err := strconv.Atoi(args[0])
	if err != nil || rounds < 1 || rounds > maxBurst {
		fmt.Fprintf(n.out, "Rounds must be 1-%d\n", maxBurst)
		return
	}

	before := n.engine.Snapshot()
	for i := 0; i < rounds; i++ {
		n.traffic.Round()
	}
	after := n.engine.Snapshot()

	fmt.Fprintf(n.out, "%d rounds: %d transitions (state: %s)\n",
		rounds, after.Transitions-before.Transitions, after.State)
}

func (n *Node) cmdState() {
	snap := n.engine.Snapshot()
	fmt.Fprintf(n.out, "State:   %s\n", snap.State)
	if snap.Timer != sleep.TimerNone {
		fmt.Fprintf(n.out, "Timer:   %s (%s remaining)\n", snap.Timer, snap.TimerRemaining.Round(time.Millisecond))
	}
	fmt.Fprintf(n.out, "Since:   %s\n", snap.LastTransition.Format(time.TimeOnly))
	fmt.Fprintf(n.out, "Radio:   %s\n", onOff(n.radio.On()))
	fmt.Fprintf(n.out, "Joined:  %v\n", n.mesh.Joined())
}

func (n *Node) cmdStats() {
	snap := n.engine.Snapshot()
	p := snap.Policy

	fmt.Fprintf(n.out, "Session:      %s\n", snap.SessionID)
	fmt.Fprintf(n.out, "Policy:       %s", p.Kind)
	switch p.Kind {
	case policy.KindThreshold, policy.KindRandomizedThreshold:
		fmt.Fprintf(n.out, " (count %d/%d)", p.Count, p.EffectiveThreshold)
	case policy.KindProbability, policy.KindCumulativeProbability:
		fmt.Fprintf(n.out, " (p=%.4f)", p.Probability)
	}
	fmt.Fprintln(n.out)
	fmt.Fprintf(n.out, "Evaluations:  %d (%d fired)\n", p.Observations, p.Fires)
	fmt.Fprintf(n.out, "Transitions:  %d (%d sleep cycles, %d stale timers)\n",
		snap.Transitions, snap.Cycles, snap.StaleTimers)

	pk := snap.Packets
	fmt.Fprintf(n.out, "Inbound:      %d processed, %d dropped\n", pk.InboundProcessed, pk.InboundDropped)
	fmt.Fprintf(n.out, "Outbound:     %d processed, %d dropped\n", pk.OutboundProcessed, pk.OutboundDropped)

	rs := n.radio.Stats()
	fmt.Fprintf(n.out, "Radio:        %s, %d toggles, duty cycle %.1f%%\n", onOff(rs.On), rs.Toggles, rs.DutyCycle*100)

	ms := n.mesh.Stats()
	fmt.Fprintf(n.out, "Mesh:         %d leaves, %d rejoins\n", ms.Leaves, ms.Rejoins)
}

func (n *Node) cmdForce(args []string) {
	reason := strings.Join(args, " ")
	if reason == "" {
		reason = "operator"
	}
	if n.engine.ForceActive(reason) {
		fmt.Fprintln(n.out, "Gate forced to ACTIVE")
		return
	}
	fmt.Fprintf(n.out, "Already %s\n", n.engine.State())
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
