package schedule

import (
	"time"

	"nextbus/internal/transit"
)

// Departure is a trip kept by Upcoming, paired with its normalized
// arrival time at the queried stop.
type Departure struct {
	Entry transit.TripEntry
	At    time.Time
}

// Upcoming filters entries down to trips still ahead of now, in feed order,
// capped at limit. The service date is now's calendar date in loc. A trip
// arriving in the very second of now is already gone and is excluded.
//
// Entries whose arrival time cannot be parsed are skipped rather than
// aborting the query; the second return value is the skip count so callers
// can flag the data-quality defect.
func Upcoming(entries []transit.TripEntry, now time.Time, loc *time.Location, limit int) ([]Departure, int) {
	serviceDate := now.In(loc)
	cutoff := now.Truncate(time.Second)

	var kept []Departure
	skipped := 0
	for _, e := range entries {
		at, err := ParseTripTime(e.StopTime.ArrivalTime, serviceDate, loc)
		if err != nil {
			skipped++
			continue
		}
		if !at.After(cutoff) {
			continue
		}
		kept = append(kept, Departure{Entry: e, At: at})
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return kept, skipped
}
