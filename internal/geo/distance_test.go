package geo

import (
	"math"
	"testing"
)

func TestHaversine_KnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantMeters             float64
		tolerance              float64 // allowed error in meters
	}{
		{
			name: "downtown Nashville to East Nashville (~3.2 km)",
			lat1: 36.1627, lon1: -86.7816,
			lat2: 36.1772, lon2: -86.7520,
			wantMeters: 3_115,
			tolerance:  50,
		},
		{
			name: "same point returns zero",
			lat1: 36.1627, lon1: -86.7816,
			lat2: 36.1627, lon2: -86.7816,
			wantMeters: 0,
			tolerance:  0.001,
		},
		{
			name: "across a street (~115m)",
			lat1: 36.16270, lon1: -86.78160,
			lat2: 36.16270, lon2: -86.78030,
			wantMeters: 117,
			tolerance:  15,
		},
		{
			name: "north pole to south pole",
			lat1: 90, lon1: 0,
			lat2: -90, lon2: 0,
			wantMeters: math.Pi * earthRadiusMeters,
			tolerance:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantMeters) > tt.tolerance {
				t.Errorf("Haversine() = %.1f m, want %.1f m (±%.0f)", got, tt.wantMeters, tt.tolerance)
			}
		})
	}
}

func TestHaversine_Symmetry(t *testing.T) {
	a := Haversine(36.1627, -86.7816, 36.1772, -86.7520)
	b := Haversine(36.1772, -86.7520, 36.1627, -86.7816)
	if a != b {
		t.Errorf("Haversine not symmetric: %f != %f", a, b)
	}
}

func TestParseLatLon(t *testing.T) {
	tests := []struct {
		input   string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"36.1650,-86.78404", 36.1650, -86.78404, false},
		{"36.1650, -86.78404", 36.1650, -86.78404, false},
		{" 0,0 ", 0, 0, false},
		{"-90,180", -90, 180, false},
		{"91,0", 0, 0, true},
		{"0,181", 0, 0, true},
		{"36.1650", 0, 0, true},
		{"lat,lon", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lat, lon, err := ParseLatLon(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseLatLon(%q) expected error, got (%f, %f)", tt.input, lat, lon)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLatLon(%q) unexpected error: %v", tt.input, err)
			}
			if lat != tt.lat || lon != tt.lon {
				t.Errorf("ParseLatLon(%q) = (%f, %f), want (%f, %f)", tt.input, lat, lon, tt.lat, tt.lon)
			}
		})
	}
}
