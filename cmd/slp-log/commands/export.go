package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/slp-mesh/slp-go/pkg/log"
)

// RunExport exports the log file to the specified format. An empty output
// writes to stdout.
func RunExport(path, format, output string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return Export(path, format, w)
}

// Export writes the events of path to w in the given format.
func Export(path, format string, w io.Writer) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	if format == "jsonl" {
		return exportJSONL(reader, w)
	}
	return exportCSV(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

var csvHeader = []string{"timestamp", "session_id", "node_id", "category", "gate_state", "detail", "value"}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		detail, value := csvDetail(event)
		row := []string{
			event.Timestamp.UTC().Format(timestampLayout),
			event.SessionID,
			event.NodeID,
			event.Category.String(),
			event.GateState,
			detail,
			value,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return cw.Error()
}

// csvDetail summarises the event payload as a detail label and a value.
func csvDetail(event log.Event) (string, string) {
	switch {
	case event.Packet != nil:
		action := "process"
		if event.Packet.Dropped {
			action = "drop"
		}
		return event.Packet.Direction.String() + ":" + strconv.Itoa(int(event.Packet.Protocol)), action
	case event.Policy != nil:
		return event.Policy.Kind, strconv.FormatBool(event.Policy.Fired)
	case event.Transition != nil:
		return event.Transition.Trigger, event.Transition.OldState + ">" + event.Transition.NewState
	case event.Command != nil:
		return event.Command.Command.String(), strconv.FormatBool(event.Command.Delivered)
	case event.Timer != nil:
		return event.Timer.Timer, event.Timer.Action.String()
	default:
		return "", ""
	}
}
