package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextbus/internal/transit"
)

func entry(tripGID, arrival string) transit.TripEntry {
	return transit.TripEntry{
		Trip:     transit.Trip{TripGID: tripGID, RouteGID: "3", Headsign: "TEST"},
		StopTime: transit.StopTime{ArrivalTime: arrival, DepartureTime: arrival},
	}
}

func TestUpcoming_FiltersPastTrips(t *testing.T) {
	loc := chicago(t)
	now := time.Date(2026, 2, 2, 21, 41, 49, 0, loc)

	entries := []transit.TripEntry{
		entry("past", "21:30:00"),
		entry("future1", "21:50:00"),
		entry("future2", "22:00:00"),
	}

	kept, skipped := Upcoming(entries, now, loc, 5)
	assert.Zero(t, skipped)
	require.Len(t, kept, 2)
	assert.Equal(t, "future1", kept[0].Entry.Trip.TripGID)
	assert.Equal(t, "future2", kept[1].Entry.Trip.TripGID)
}

func TestUpcoming_SameSecondExcluded(t *testing.T) {
	loc := chicago(t)
	now := time.Date(2026, 2, 2, 21, 50, 0, 0, loc)

	entries := []transit.TripEntry{
		entry("boundary", "21:50:00"),
		entry("next", "21:50:01"),
	}

	kept, _ := Upcoming(entries, now, loc, 5)
	require.Len(t, kept, 1)
	assert.Equal(t, "next", kept[0].Entry.Trip.TripGID)
}

func TestUpcoming_SubSecondNowStillExcludesSameSecond(t *testing.T) {
	loc := chicago(t)
	// Comparison is at second granularity: 21:50:00.750 vs a 21:50:00 trip.
	now := time.Date(2026, 2, 2, 21, 50, 0, 750_000_000, loc)

	kept, _ := Upcoming([]transit.TripEntry{entry("boundary", "21:50:00")}, now, loc, 5)
	assert.Empty(t, kept)
}

func TestUpcoming_PreservesFeedOrderAndCapsAtLimit(t *testing.T) {
	loc := chicago(t)
	now := time.Date(2026, 2, 2, 6, 0, 0, 0, loc)

	entries := []transit.TripEntry{
		entry("a", "07:01:00"),
		entry("b", "07:15:00"),
		entry("c", "07:16:00"),
		entry("d", "07:31:00"),
		entry("e", "07:35:00"),
		entry("f", "07:50:00"),
	}

	kept, _ := Upcoming(entries, now, loc, 5)
	require.Len(t, kept, 5)
	for i, want := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, want, kept[i].Entry.Trip.TripGID)
	}
}

func TestUpcoming_SkipsMalformedTimes(t *testing.T) {
	loc := chicago(t)
	now := time.Date(2026, 2, 2, 6, 0, 0, 0, loc)

	entries := []transit.TripEntry{
		entry("good1", "07:01:00"),
		entry("bad", "garbage"),
		entry("good2", "07:15:00"),
	}

	kept, skipped := Upcoming(entries, now, loc, 5)
	assert.Equal(t, 1, skipped)
	require.Len(t, kept, 2)
	assert.Equal(t, "good1", kept[0].Entry.Trip.TripGID)
	assert.Equal(t, "good2", kept[1].Entry.Trip.TripGID)
}

func TestUpcoming_PostMidnightTripIncludedLateNight(t *testing.T) {
	loc := chicago(t)
	now := time.Date(2026, 2, 2, 23, 53, 49, 0, loc)

	entries := []transit.TripEntry{
		entry("tonight", "23:58:00"),
		entry("after-midnight", "24:48:00"),
		entry("later", "25:48:00"),
	}

	kept, _ := Upcoming(entries, now, loc, 5)
	require.Len(t, kept, 3)

	// The 24:48:00 trip lands on Feb 3 at 00:48 and sorts after tonight's.
	assert.Equal(t, "after-midnight", kept[1].Entry.Trip.TripGID)
	assert.Equal(t, time.Date(2026, 2, 3, 0, 48, 0, 0, loc).Unix(), kept[1].At.Unix())
	assert.True(t, kept[0].At.Before(kept[1].At))
	assert.True(t, kept[1].At.Before(kept[2].At))
}

func TestUpcoming_EmptyResult(t *testing.T) {
	loc := chicago(t)
	now := time.Date(2026, 2, 2, 23, 59, 0, 0, loc)

	kept, skipped := Upcoming([]transit.TripEntry{entry("gone", "09:00:00")}, now, loc, 5)
	assert.Empty(t, kept)
	assert.Zero(t, skipped)
}

func TestUpcoming_NoLimit(t *testing.T) {
	loc := chicago(t)
	now := time.Date(2026, 2, 2, 6, 0, 0, 0, loc)

	entries := []transit.TripEntry{
		entry("a", "07:00:00"),
		entry("b", "08:00:00"),
	}

	kept, _ := Upcoming(entries, now, loc, 0)
	assert.Len(t, kept, 2)
}
