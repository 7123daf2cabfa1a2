// Package transit is an HTTP client for a gtfs-rails-api instance, the
// external data source answering stop, trip, and agency queries.
package transit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"nextbus/internal/metrics"
)

// ErrEmptyResponse means the API answered with a success status but no body.
var ErrEmptyResponse = errors.New("no data returned")

// UpstreamError is an application-level error carried inside an otherwise
// successful response body. Its message is forwarded to the user verbatim.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Client is an HTTP client for the transit data API. Every query fetches
// fresh data; nothing is cached between invocations.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewClient creates a transit API client.
func NewClient(baseURL string, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		// Politeness cap on outbound requests; one pipeline issues at
		// most three sequential fetches, so this only matters under
		// concurrent load.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
		metrics: m,
		logger:  logger,
	}
}

// Agencies fetches the agency list. The first agency's timezone is the
// evaluation context for trip times.
func (c *Client) Agencies(ctx context.Context) ([]Agency, error) {
	var resp AgenciesResponse
	if err := c.getJSON(ctx, "agencies.json", "agencies", &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &UpstreamError{Message: resp.Error}
	}
	return resp.Data, nil
}

// StopsNear fetches stops near a "lat,lon" coordinate, ranked by distance.
func (c *Client) StopsNear(ctx context.Context, latlon string, radius, perPage int) (*StopsNearResponse, error) {
	path := fmt.Sprintf("stops/near/%s/%d.json?per_page=%d", url.PathEscape(latlon), radius, perPage)
	var resp StopsNearResponse
	if err := c.getJSON(ctx, path, "stops_near", &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &UpstreamError{Message: resp.Error}
	}
	return &resp, nil
}

// NextTrips fetches the next-trip view for a stop: the stop itself, its
// next and upcoming trips, active alerts, and live vehicle positions.
func (c *Client) NextTrips(ctx context.Context, stopID string) (*NextResponse, error) {
	path := fmt.Sprintf("stops/%s/next.json", url.PathEscape(stopID))
	var resp NextResponse
	if err := c.getJSON(ctx, path, "next_trips", &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &UpstreamError{Message: resp.Error}
	}
	return &resp, nil
}

func (c *Client) getJSON(ctx context.Context, path, endpoint string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	fullURL := fmt.Sprintf("%s/%s", c.baseURL, path)
	c.logger.Debug("fetching", "url", fullURL)

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	c.metrics.APIRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, fullURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
