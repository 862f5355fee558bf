// Package commands implements the slp-log CLI commands.
package commands

import (
	"fmt"
	"strings"

	"github.com/slp-mesh/slp-go/pkg/log"
)

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "packet":
		return log.CategoryPacket, nil
	case "policy":
		return log.CategoryPolicy, nil
	case "transition":
		return log.CategoryTransition, nil
	case "command":
		return log.CategoryCommand, nil
	case "timer":
		return log.CategoryTimer, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be packet, policy, transition, command, or timer)", s)
	}
}

// ParseStateFlag normalises a gate state name (active, pending-sleep, asleep).
func ParseStateFlag(s string) (string, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "active":
		return "ACTIVE", nil
	case "pending_sleep", "pending":
		return "PENDING_SLEEP", nil
	case "asleep":
		return "ASLEEP", nil
	default:
		return "", fmt.Errorf("invalid state: %s (must be active, pending-sleep, or asleep)", s)
	}
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

const timestampLayout = "2006-01-02T15:04:05.000000Z"
