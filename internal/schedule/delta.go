package schedule

import (
	"fmt"
	"math"
	"time"
)

// Delay compares a realtime observation against the schedule for the same
// stop event. It returns the signed whole-minute difference and a rider
// status label: "On time", "5m late", "3m early".
//
// Callers must only invoke this when a realtime observation exists; a trip
// without one gets no status at all, not a zero.
func Delay(scheduled, actual time.Time) (int, string) {
	minutes := int(math.Round(actual.Sub(scheduled).Minutes()))
	switch {
	case minutes > 0:
		return minutes, fmt.Sprintf("%dm late", minutes)
	case minutes < 0:
		return minutes, fmt.Sprintf("%dm early", -minutes)
	default:
		return 0, "On time"
	}
}
