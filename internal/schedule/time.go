// Package schedule implements the trip-time pipeline: normalizing GTFS
// time-of-day strings into absolute timestamps, selecting upcoming trips,
// and comparing schedule against realtime observations.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeFormat marks a trip time string that cannot be parsed.
// Upstream feeds occasionally ship these; callers skip the trip.
var ErrInvalidTimeFormat = errors.New("invalid time format")

var tripTimeRe = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2}):([0-9]{2})$`)

// ParseTripTime converts a GTFS "HH:MM:SS" time of day into an absolute
// timestamp on serviceDate in loc. Hours run 00-47: values of 24 and above
// are post-midnight service belonging to serviceDate's schedule, so they
// land on the next calendar day at wall-clock hour HH-24.
//
// The result depends only on the three arguments; no process-wide clock or
// timezone state is consulted.
func ParseTripTime(s string, serviceDate time.Time, loc *time.Location) (time.Time, error) {
	m := tripTimeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hour, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	if hour > 47 || min > 59 || sec > 59 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	nextDay := hour >= 24
	if nextDay {
		hour -= 24
	}

	t := time.Date(serviceDate.Year(), serviceDate.Month(), serviceDate.Day(), hour, min, sec, 0, loc)
	if nextDay {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}
