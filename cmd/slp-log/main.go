// Command slp-log is a tool for viewing and analyzing sleep engine event logs.
//
// Log files are created when running slp-node with the -protocol-log flag.
//
// Usage:
//
//	slp-log <command> [flags] <file.slog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	slp-log view node.slog
//
//	# View only gate transitions
//	slp-log view --category transition node.slog
//
//	# View packets cancelled while asleep
//	slp-log view --state asleep --dropped node.slog
//
//	# Export to CSV
//	slp-log export --format csv -o node.csv node.slog
//
//	# Keep one session
//	slp-log filter --session 3f2a9c1e -o session.slog node.slog
//
//	# Show statistics
//	slp-log stats node.slog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/slp-mesh/slp-go/cmd/slp-log/commands"
)

const usage = `slp-log - Sleep Engine Log Analyzer

Usage:
  slp-log <command> [flags] <file.slog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "slp-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func newFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "slp-log %s - %s\n\nUsage:\n  slp-log %s [flags] <file.slog>\n\nFlags:\n", name, synopsis, name)
		fs.PrintDefaults()
	}
	return fs
}

// logPath returns the single positional argument or exits.
func logPath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", "View log file in human-readable format")
	category := fs.String("category", "", "Filter by category (packet, policy, transition, command, timer)")
	state := fs.String("state", "", "Filter by gate state (active, pending-sleep, asleep)")
	dropped := fs.Bool("dropped", false, "Show only dropped packets")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	filter := commands.ViewFilter{DroppedOnly: *dropped}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}
	if *state != "" {
		s, err := commands.ParseStateFlag(*state)
		if err != nil {
			fail(err)
		}
		filter.GateState = s
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export log file to JSON or CSV format")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter log file and write to new file")
	output := fs.String("o", "", "Output file (required)")
	session := fs.String("session", "", "Filter by session ID prefix")
	node := fs.String("node", "", "Filter by node ID")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	category := fs.String("category", "", "Filter by category (packet, policy, transition, command, timer)")
	state := fs.String("state", "", "Filter by gate state (active, pending-sleep, asleep)")
	dropped := fs.Bool("dropped", false, "Keep only dropped packets")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:      *output,
		SessionID:   *session,
		NodeID:      *node,
		TimeStart:   *timeStart,
		TimeEnd:     *timeEnd,
		Category:    *category,
		State:       *state,
		DroppedOnly: *dropped,
	}

	if err := commands.RunFilter(path, opts, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the log file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := logPath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
