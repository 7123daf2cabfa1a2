// Package bot implements the nextbus query pipelines: one per command
// shape. Each invocation is a stateless computation against freshly
// fetched data; nothing carries over between queries.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nextbus/internal/clock"
	"nextbus/internal/config"
	"nextbus/internal/geo"
	"nextbus/internal/metrics"
	"nextbus/internal/realtime"
	"nextbus/internal/render"
	"nextbus/internal/schedule"
	"nextbus/internal/transit"
)

// Bot runs the command pipelines against a transit data source.
type Bot struct {
	client  *transit.Client
	rt      *realtime.Store // optional GTFS-RT supplement; may be nil
	cfg     *config.Config
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Bot.
func New(client *transit.Client, rt *realtime.Store, cfg *config.Config, clk clock.Clock, m *metrics.Metrics, logger *slog.Logger) *Bot {
	return &Bot{
		client:  client,
		rt:      rt,
		cfg:     cfg,
		clock:   clk,
		metrics: m,
		logger:  logger,
	}
}

// NextBus answers the bare command: the configured default stop when set,
// otherwise the stop nearest the configured coordinate.
func (b *Bot) NextBus(ctx context.Context, ch render.Channel) ([]string, error) {
	msgs, err := b.nextBus(ctx, ch)
	b.count("next", err)
	return msgs, err
}

// NextBusAtStop answers the explicit-stop command.
func (b *Bot) NextBusAtStop(ctx context.Context, stopID string, ch render.Channel) ([]string, error) {
	msgs, err := b.nextBusAtStop(ctx, stopID, ch)
	b.count("stop", err)
	return msgs, err
}

// NearbyStops lists the stops closest to the configured coordinate.
func (b *Bot) NearbyStops(ctx context.Context) ([]string, error) {
	msgs, err := b.nearbyStops(ctx)
	b.count("stops", err)
	return msgs, err
}

func (b *Bot) nextBus(ctx context.Context, ch render.Channel) ([]string, error) {
	if b.cfg.DefaultStopID != "" {
		return b.nextBusAtStop(ctx, b.cfg.DefaultStopID, ch)
	}

	stops, err := b.client.StopsNear(ctx, b.cfg.LatLon, b.cfg.SearchRadius, b.cfg.NearbyCount)
	if err != nil {
		return nil, err
	}
	if len(stops.Data) == 0 {
		return []string{fmt.Sprintf("No stops found near %s", b.cfg.LatLon)}, nil
	}
	return b.nextBusAtStop(ctx, b.nearest(stops.Data).StopGID, ch)
}

func (b *Bot) nearbyStops(ctx context.Context) ([]string, error) {
	stops, err := b.client.StopsNear(ctx, b.cfg.LatLon, b.cfg.SearchRadius, b.cfg.NearbyCount)
	if err != nil {
		return nil, err
	}
	if len(stops.Data) == 0 {
		return []string{fmt.Sprintf("No stops found near %s", b.cfg.LatLon)}, nil
	}

	lines := make([]string, 0, len(stops.Data))
	for _, s := range stops.Data {
		lines = append(lines, fmt.Sprintf("- [%s] %s", s.StopGID, s.Name))
	}
	return []string{"List of nearby stops:", strings.Join(lines, "\n")}, nil
}

func (b *Bot) nextBusAtStop(ctx context.Context, stopID string, ch render.Channel) ([]string, error) {
	// The agency timezone governs every time interpretation below, so the
	// agency lookup has to complete before trip data is requested. The
	// location stays local to this query; concurrent pipelines never see it.
	agencies, err := b.client.Agencies(ctx)
	if err != nil {
		return nil, err
	}
	loc := b.location(agencies)

	resp, err := b.client.NextTrips(ctx, stopID)
	if err != nil {
		return nil, err
	}

	now := b.clock.Now().In(loc)

	var msgs []string
	if alerts := render.Alerts(b.alertHeaders(resp)); alerts != "" {
		msgs = append(msgs, alerts)
	}

	deps, skipped := schedule.Upcoming(resp.AllTrips(), now, loc, b.cfg.Limit)
	if skipped > 0 {
		b.logger.Warn("skipped trips with unparseable times", "stop", stopID, "count", skipped)
	}
	if len(deps) == 0 {
		return append(msgs, "The last bus has already run for today."), nil
	}

	rows := make([]render.Row, 0, len(deps))
	for _, d := range deps {
		rows = append(rows, b.row(resp, d, now, loc))
	}
	return append(msgs, render.Table(resp.Stop.Name, rows, ch)), nil
}

func (b *Bot) row(resp *transit.NextResponse, d schedule.Departure, now time.Time, loc *time.Location) render.Row {
	st := d.Entry.StopTime

	status := ""
	if st.Realtime != nil && st.Realtime.Departure != "" {
		sched, schedErr := schedule.ParseTripTime(st.DepartureTime, now, loc)
		actual, actualErr := schedule.ParseTripTime(st.Realtime.Departure, now, loc)
		if schedErr == nil && actualErr == nil {
			_, status = schedule.Delay(sched, actual)
		}
	}

	hasVehicle := resp.HasVehicle(d.Entry.Trip.TripGID)
	if !hasVehicle && b.rt != nil {
		hasVehicle = b.rt.HasVehicle(d.Entry.Trip.TripGID)
	}

	return render.Row{
		Time:       d.At.Format("3:04 PM"),
		Route:      d.Entry.Trip.RouteGID,
		Headsign:   d.Entry.Trip.Headsign,
		HasVehicle: hasVehicle,
		Relative:   schedule.Relative(now, d.At),
		Status:     status,
	}
}

// alertHeaders merges the response's alerts with any from the GTFS-RT
// supplement, keeping one line per distinct header text.
func (b *Bot) alertHeaders(resp *transit.NextResponse) []string {
	var headers []string
	seen := make(map[string]bool)
	add := func(h string) {
		if h != "" && !seen[h] {
			seen[h] = true
			headers = append(headers, h)
		}
	}

	for _, a := range resp.Alerts {
		add(a.Header())
	}
	if b.rt != nil {
		for _, h := range b.rt.AlertHeaders() {
			add(h)
		}
	}
	return headers
}

// nearest re-ranks candidate stops by true distance from the configured
// coordinate. When the coordinate cannot be parsed, the feed's own
// distance ranking is trusted.
func (b *Bot) nearest(stops []transit.Stop) transit.Stop {
	lat, lon, err := geo.ParseLatLon(b.cfg.LatLon)
	if err != nil {
		return stops[0]
	}

	best := stops[0]
	bestDist := geo.Haversine(lat, lon, best.Lat, best.Lon)
	for _, s := range stops[1:] {
		if d := geo.Haversine(lat, lon, s.Lat, s.Lon); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

func (b *Bot) location(agencies []transit.Agency) *time.Location {
	if len(agencies) == 0 || agencies[0].Timezone == "" {
		b.logger.Warn("no agency timezone in response, falling back to UTC")
		return time.UTC
	}
	loc, err := time.LoadLocation(agencies[0].Timezone)
	if err != nil {
		b.logger.Warn("invalid agency timezone, falling back to UTC",
			"timezone", agencies[0].Timezone, "error", err)
		return time.UTC
	}
	return loc
}

func (b *Bot) count(command string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	b.metrics.CommandsTotal.WithLabelValues(command, outcome).Inc()
}

// UserMessage converts a pipeline failure into the single message shown to
// the requester. Failures never propagate past the command surface.
func UserMessage(err error) string {
	if errors.Is(err, transit.ErrEmptyResponse) {
		return "No data returned."
	}
	return err.Error()
}
