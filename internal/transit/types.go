package transit

// Agency is a transit agency as returned by the agencies endpoint.
// Its timezone governs the interpretation of every trip time in a query.
type Agency struct {
	AgencyGID string `json:"agency_gid"`
	Name      string `json:"agency_name"`
	Timezone  string `json:"agency_timezone"`
}

// AgenciesResponse is the top-level response of /agencies.json.
type AgenciesResponse struct {
	Data  []Agency `json:"data"`
	Error string   `json:"error,omitempty"`
}

// Stop is a transit stop.
type Stop struct {
	StopGID string  `json:"stop_gid"`
	Name    string  `json:"stop_name"`
	Lat     float64 `json:"stop_lat"`
	Lon     float64 `json:"stop_lon"`
}

// StopsNearResponse is the top-level response of the nearest-stop search,
// ranked by distance from the query coordinate.
type StopsNearResponse struct {
	Data  []Stop `json:"data"`
	Total int    `json:"total"`
	Error string `json:"error,omitempty"`
}

// Trip identifies one scheduled trip serving a stop.
type Trip struct {
	TripGID  string `json:"trip_gid"`
	RouteGID string `json:"route_gid"`
	Headsign string `json:"trip_headsign"`
}

// Realtime carries observed/predicted times for a stop event, when live
// tracking has them. Times use the same HH:MM:SS convention as the schedule.
type Realtime struct {
	Arrival   string `json:"arrival,omitempty"`
	Departure string `json:"departure,omitempty"`
}

// StopTime is the scheduled (and optionally observed) time of a trip at a
// stop. Hours may exceed 24 for post-midnight service on the previous
// service day.
type StopTime struct {
	ArrivalTime   string    `json:"arrival_time"`
	DepartureTime string    `json:"departure_time"`
	Realtime      *Realtime `json:"realtime,omitempty"`
}

// TripEntry pairs a trip with its stop time at the queried stop.
type TripEntry struct {
	Trip     Trip     `json:"trip"`
	StopTime StopTime `json:"stop_time"`
}

// Translation is one language variant of an alert text.
type Translation struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// TranslatedText is a multi-language text block.
type TranslatedText struct {
	Translation []Translation `json:"translation"`
}

// Alert is a service alert attached to a stop's trips or routes.
type Alert struct {
	HeaderText *TranslatedText `json:"header_text,omitempty"`
}

// Header returns the alert's first translated header text, or a generic
// label when the feed carries none.
func (a Alert) Header() string {
	if a.HeaderText != nil {
		for _, t := range a.HeaderText.Translation {
			if t.Text != "" {
				return t.Text
			}
		}
	}
	return "Service Alert"
}

// VehicleTrip references the trip a live vehicle is serving.
type VehicleTrip struct {
	TripID string `json:"trip_id"`
}

// VehiclePosition is a live position report keyed by trip.
type VehiclePosition struct {
	Trip *VehicleTrip `json:"trip,omitempty"`
}

// NextResponse is the top-level response of /stops/{id}/next.json.
type NextResponse struct {
	Stop             Stop              `json:"stop"`
	NextTrip         *TripEntry        `json:"next_trip"`
	UpcomingTrips    []TripEntry       `json:"upcoming_trips"`
	Alerts           []Alert           `json:"alerts"`
	VehiclePositions []VehiclePosition `json:"vehicle_positions"`
	Error            string            `json:"error,omitempty"`
}

// AllTrips returns the next trip (when present) followed by the upcoming
// trips, preserving the feed's chronological ordering.
func (r *NextResponse) AllTrips() []TripEntry {
	if r.NextTrip == nil {
		return r.UpcomingTrips
	}
	trips := make([]TripEntry, 0, len(r.UpcomingTrips)+1)
	trips = append(trips, *r.NextTrip)
	return append(trips, r.UpcomingTrips...)
}

// HasVehicle reports whether a live vehicle position matches the trip.
func (r *NextResponse) HasVehicle(tripGID string) bool {
	if tripGID == "" {
		return false
	}
	for _, vp := range r.VehiclePositions {
		if vp.Trip != nil && vp.Trip.TripID == tripGID {
			return true
		}
	}
	return false
}
