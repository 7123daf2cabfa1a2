// Package realtime supplements the JSON data source with an optional
// GTFS-realtime protobuf feed carrying vehicle positions and alerts.
package realtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"nextbus/internal/metrics"
)

// Fetcher polls a GTFS-RT feed and updates the store.
type Fetcher struct {
	feedURL string
	store   *Store
	client  *http.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewFetcher creates a GTFS-RT feed fetcher.
func NewFetcher(feedURL string, store *Store, m *metrics.Metrics, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		feedURL: feedURL,
		store:   store,
		client:  &http.Client{Timeout: 15 * time.Second},
		metrics: m,
		logger:  logger,
	}
}

// Start polls the feed until the context is cancelled. Poll failures are
// logged and the previous snapshot stays in place.
func (f *Fetcher) Start(ctx context.Context) {
	if err := f.FetchOnce(ctx); err != nil {
		f.logger.Warn("initial GTFS-RT fetch failed", "error", err)
	}

	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := f.FetchOnce(ctx); err != nil {
				f.logger.Warn("GTFS-RT fetch failed", "error", err)
			}
		case <-ctx.Done():
			f.logger.Info("GTFS-RT fetcher stopped")
			return
		}
	}
}

// FetchOnce reads the feed a single time and replaces the store contents.
// One-shot command invocations use this directly instead of polling.
func (f *Fetcher) FetchOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", f.feedURL, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.metrics.FeedUpdatesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("fetch GTFS-RT feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.metrics.FeedUpdatesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("GTFS-RT feed returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.metrics.FeedUpdatesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("read GTFS-RT body: %w", err)
	}

	feed := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, feed); err != nil {
		f.metrics.FeedUpdatesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("parse GTFS-RT protobuf: %w", err)
	}

	var alerts []Alert
	var vehicleTrips []string
	for _, entity := range feed.GetEntity() {
		if v := entity.GetVehicle(); v != nil {
			if tripID := v.GetTrip().GetTripId(); tripID != "" {
				vehicleTrips = append(vehicleTrips, tripID)
			}
		}
		if a := entity.GetAlert(); a != nil {
			alerts = append(alerts, Alert{
				ID:         entity.GetId(),
				HeaderText: getTranslation(a.GetHeaderText()),
			})
		}
	}

	f.store.SetAlerts(alerts)
	f.store.SetVehicleTrips(vehicleTrips)
	f.metrics.FeedUpdatesTotal.WithLabelValues("ok").Inc()
	f.logger.Debug("GTFS-RT snapshot updated", "alerts", len(alerts), "vehicles", len(vehicleTrips))
	return nil
}

func getTranslation(ts *gtfs.TranslatedString) string {
	if ts == nil {
		return "Service Alert"
	}
	for _, t := range ts.GetTranslation() {
		if text := t.GetText(); text != "" {
			return text
		}
	}
	return "Service Alert"
}
