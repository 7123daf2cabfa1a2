// Package render turns selected trips and alerts into chat messages.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rodaine/table"
)

// Channel describes what the destination can display. It is the only
// platform knowledge the renderer has; command surfaces map themselves
// onto one of these capabilities.
type Channel int

const (
	// ChannelPlain emits bare text for destinations without fixed-width
	// rendering guarantees.
	ChannelPlain Channel = iota
	// ChannelMonospace wraps the table in a fenced code block for
	// destinations that render it in a monospaced font.
	ChannelMonospace
)

// Row is one rendered trip line.
type Row struct {
	Time       string // formatted local time, e.g. "9:50 PM"
	Route      string // route identifier, shown as #Route
	Headsign   string // rider-facing destination
	HasVehicle bool   // a live vehicle position matches this trip
	Relative   string // relative phrase, e.g. "in 9 minutes"
	Status     string // delay label; empty when no realtime observation exists
}

// Table renders the stop heading plus an aligned three-column listing of
// its upcoming trips. Rendering the same rows twice yields identical bytes.
func Table(stopName string, rows []Row, channel Channel) string {
	heading := fmt.Sprintf("🚏 *%s*", stopName)
	if len(rows) == 0 {
		return heading
	}

	var buf bytes.Buffer
	tbl := table.New("time", "trip", "departs").
		WithWriter(&buf).
		WithPrintHeaders(false)

	for _, r := range rows {
		trip := fmt.Sprintf("#%s - %s", r.Route, r.Headsign)
		if r.HasVehicle {
			trip += " 🚌"
		}
		departs := r.Relative
		if r.Status != "" {
			departs = fmt.Sprintf("%s (%s)", r.Relative, r.Status)
		}
		tbl.AddRow(r.Time, trip, departs)
	}
	tbl.Print()

	body := trimLineEndings(buf.String())
	if channel == ChannelMonospace {
		return fmt.Sprintf("%s\n```\n%s\n```", heading, body)
	}
	return fmt.Sprintf("%s\n%s", heading, body)
}

// Alerts renders one line per service alert header. Empty when there are
// none; always sent as its own message ahead of the trip table.
func Alerts(headers []string) string {
	if len(headers) == 0 {
		return ""
	}
	lines := make([]string, 0, len(headers))
	for _, h := range headers {
		lines = append(lines, fmt.Sprintf("⚠️  *%s*", strings.TrimSpace(h)))
	}
	return strings.Join(lines, "\n")
}

// trimLineEndings strips column padding from the end of each line and the
// trailing newline the table writer leaves behind.
func trimLineEndings(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}
