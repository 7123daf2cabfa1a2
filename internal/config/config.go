package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration from environment variables.
// Core packages never read these values from the environment themselves;
// everything is passed down as explicit parameters.
type Config struct {
	BaseURL       string // gtfs-rails-api instance serving the transit data
	LatLon        string // default "lat,lon" coordinate for nearest-stop search
	DefaultStopID string // when set, `nextbus` skips the nearest-stop lookup
	Limit         int    // maximum trips shown per query
	SearchRadius  int    // nearest-stop search radius passed to the API
	NearbyCount   int    // stops requested per nearest-stop search
	GTFSRTFeedURL string // optional GTFS-realtime protobuf feed (vehicles + alerts)
	Port          int    // slash-command server port
	SlashToken    string // shared token required on slash-command requests (empty = open)
	RatePerMin    int    // inbound requests allowed per client per minute
}

// Load reads configuration from the environment with defaults,
// pulling in a .env file first when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		BaseURL:       envStr("NEXTBUS_BASE_URL", "https://gtfs.transitnownash.org"),
		LatLon:        envStr("NEXTBUS_LAT_LON", ""),
		DefaultStopID: envStr("NEXTBUS_STOP_ID", ""),
		Limit:         envInt("NEXTBUS_LIMIT", 5),
		SearchRadius:  envInt("NEXTBUS_SEARCH_RADIUS", 1000),
		NearbyCount:   envInt("NEXTBUS_NEARBY_COUNT", 5),
		GTFSRTFeedURL: envStr("NEXTBUS_GTFSRT_URL", ""),
		Port:          envInt("NEXTBUS_PORT", 8080),
		SlashToken:    envStr("NEXTBUS_SLASH_TOKEN", ""),
		RatePerMin:    envInt("NEXTBUS_RATE_PER_MIN", 60),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
