package realtime

import (
	"sync"
)

// Alert is a service alert parsed from a GTFS-RT feed.
type Alert struct {
	ID         string
	HeaderText string
}

// Store holds the latest GTFS-RT snapshot in a thread-safe manner. Query
// pipelines read it; the Fetcher replaces its contents wholesale.
type Store struct {
	mu           sync.RWMutex
	alerts       []Alert
	vehicleTrips map[string]struct{}
}

// NewStore creates an empty realtime store.
func NewStore() *Store {
	return &Store{vehicleTrips: make(map[string]struct{})}
}

// SetAlerts replaces all alerts.
func (s *Store) SetAlerts(alerts []Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = alerts
}

// SetVehicleTrips replaces the set of trips with an active vehicle.
func (s *Store) SetVehicleTrips(tripIDs []string) {
	trips := make(map[string]struct{}, len(tripIDs))
	for _, id := range tripIDs {
		if id != "" {
			trips[id] = struct{}{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicleTrips = trips
}

// HasVehicle reports whether a live vehicle is serving the trip.
func (s *Store) HasVehicle(tripID string) bool {
	if tripID == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.vehicleTrips[tripID]
	return ok
}

// AlertHeaders returns the header text of every active alert.
func (s *Store) AlertHeaders() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	headers := make([]string, 0, len(s.alerts))
	for _, a := range s.alerts {
		headers = append(headers, a.HeaderText)
	}
	return headers
}
