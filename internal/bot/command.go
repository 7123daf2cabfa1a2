package bot

import (
	"regexp"
	"strings"
)

// CommandKind is one of the three command shapes the bot understands.
type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandNextBus
	CommandNearbyStops
	CommandStop
)

// Command is a parsed chat command.
type Command struct {
	Kind   CommandKind
	StopID string
}

var (
	nextRe  = regexp.MustCompile(`(?i)^(?:(?:bus|nextbus)(?:\s+me)?|me)?$`)
	stopsRe = regexp.MustCompile(`(?i)^(?:(?:bus|nextbus)\s+)?stops$`)
	stopRe  = regexp.MustCompile(`(?i)^(?:(?:bus|nextbus)\s+)?stop\s+([A-Za-z0-9_]+)$`)
)

// ParseCommand maps command text onto one of the three command shapes.
// The leading "bus"/"nextbus" word is optional since slash-command
// payloads carry it separately from the argument text.
func ParseCommand(text string) Command {
	text = strings.TrimSpace(text)

	if nextRe.MatchString(text) {
		return Command{Kind: CommandNextBus}
	}
	if stopsRe.MatchString(text) {
		return Command{Kind: CommandNearbyStops}
	}
	if m := stopRe.FindStringSubmatch(text); m != nil {
		return Command{Kind: CommandStop, StopID: m[1]}
	}
	return Command{Kind: CommandUnknown}
}
