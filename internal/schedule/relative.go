package schedule

import (
	"fmt"
	"math"
	"time"
)

// Relative phrases the distance between now and t the way riders read it in
// chat: "in 9 minutes", "in an hour", "2 hours ago". Thresholds follow the
// common humanized-duration convention (45s/90s/45m/90m/22h/36h/26d/...).
func Relative(now, t time.Time) string {
	d := t.Sub(now)
	if d >= 0 {
		return "in " + humanDuration(d)
	}
	return humanDuration(-d) + " ago"
}

func humanDuration(d time.Duration) string {
	seconds := d.Seconds()
	minutes := math.Round(d.Minutes())
	hours := math.Round(d.Hours())
	days := math.Round(d.Hours() / 24)
	months := math.Round(d.Hours() / 24 / 30)
	years := math.Round(d.Hours() / 24 / 365)

	switch {
	case seconds < 45:
		return "a few seconds"
	case seconds < 90:
		return "a minute"
	case minutes < 45:
		return fmt.Sprintf("%d minutes", int(minutes))
	case minutes < 90:
		return "an hour"
	case hours < 22:
		return fmt.Sprintf("%d hours", int(hours))
	case hours < 36:
		return "a day"
	case days < 26:
		return fmt.Sprintf("%d days", int(days))
	case days < 46:
		return "a month"
	case days < 320:
		return fmt.Sprintf("%d months", int(months))
	case days < 548:
		return "a year"
	default:
		return fmt.Sprintf("%d years", int(years))
	}
}
