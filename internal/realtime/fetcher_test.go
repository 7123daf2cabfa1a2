package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"nextbus/internal/metrics"
)

func testFeed(t *testing.T) []byte {
	t.Helper()
	feed := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
		},
		Entity: []*gtfs.FeedEntity{
			{
				Id: proto.String("v1"),
				Vehicle: &gtfs.VehiclePosition{
					Trip: &gtfs.TripDescriptor{TripId: proto.String("trip-278")},
				},
			},
			{
				Id: proto.String("a1"),
				Alert: &gtfs.Alert{
					HeaderText: &gtfs.TranslatedString{
						Translation: []*gtfs.TranslatedString_Translation{
							{Text: proto.String("Detour in effect on route 3"), Language: proto.String("en")},
						},
					},
				},
			},
			{
				Id:    proto.String("a2"),
				Alert: &gtfs.Alert{},
			},
		},
	}
	data, err := proto.Marshal(feed)
	require.NoError(t, err)
	return data
}

func TestFetchOnce(t *testing.T) {
	data := testFeed(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	store := NewStore()
	f := NewFetcher(srv.URL, store, metrics.New(), slog.Default())

	require.NoError(t, f.FetchOnce(context.Background()))

	assert.True(t, store.HasVehicle("trip-278"))
	assert.False(t, store.HasVehicle("trip-999"))
	assert.False(t, store.HasVehicle(""))

	headers := store.AlertHeaders()
	require.Len(t, headers, 2)
	assert.Equal(t, "Detour in effect on route 3", headers[0])
	assert.Equal(t, "Service Alert", headers[1], "alert without header text gets the generic label")
}

func TestFetchOnce_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	store := NewStore()
	f := NewFetcher(srv.URL, store, metrics.New(), slog.Default())

	err := f.FetchOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestFetchOnce_BadProtobuf(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a protobuf"))
	}))
	defer srv.Close()

	store := NewStore()
	f := NewFetcher(srv.URL, store, metrics.New(), slog.Default())

	err := f.FetchOnce(context.Background())
	require.Error(t, err)
}

func TestFetchOnce_ReplacesSnapshot(t *testing.T) {
	data := testFeed(t)
	empty := &gtfs.FeedMessage{Header: &gtfs.FeedHeader{GtfsRealtimeVersion: proto.String("2.0")}}
	emptyData, err := proto.Marshal(empty)
	require.NoError(t, err)

	full := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if full {
			w.Write(data)
		} else {
			w.Write(emptyData)
		}
	}))
	defer srv.Close()

	store := NewStore()
	f := NewFetcher(srv.URL, store, metrics.New(), slog.Default())

	require.NoError(t, f.FetchOnce(context.Background()))
	assert.True(t, store.HasVehicle("trip-278"))

	full = false
	require.NoError(t, f.FetchOnce(context.Background()))
	assert.False(t, store.HasVehicle("trip-278"), "vehicles from the previous poll are gone")
	assert.Empty(t, store.AlertHeaders())
}
