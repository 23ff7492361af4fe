package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"weathermood/internal/weather"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient points the client at the test server and strips the retry
// delays so failure paths run instantly.
func newTestClient(t *testing.T, handler http.Handler) *OpenWeatherClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewOpenWeatherClient(srv.Client(), "test-key", nil, testLogger())
	c.baseURL = srv.URL
	c.httpCfg.Backoff = BackoffConfig{
		MaxRetries:      0,
		InitialInterval: time.Millisecond,
	}
	return c
}

const currentBody = `{
	"dt": 1756550400,
	"main": {"temp": 18.2, "feels_like": 17.5, "temp_min": 15, "temp_max": 21, "pressure": 1013, "humidity": 55},
	"wind": {"speed": 4, "deg": 225},
	"clouds": {"all": 30},
	"visibility": 10000,
	"sys": {"sunrise": 1756530000, "sunset": 1756580000},
	"weather": [{"id": 801}]
}`

const onecallBody = `{
	"current": {"uvi": 6.1},
	"hourly": [{"dt": 1756554000, "temp": 19, "feels_like": 18, "humidity": 50, "wind_speed": 3, "wind_deg": 200, "pop": 0.2, "weather": [{"id": 800}]}],
	"daily": [{"dt": 1756551600, "sunrise": 1756530000, "sunset": 1756580000, "moon_phase": 0.5,
		"temp": {"min": 14, "max": 22, "day": 19}, "humidity": 48, "wind_speed": 5, "uvi": 6, "pop": 0.3,
		"weather": [{"id": 802}]}]
}`

const forecastBody = `{
	"list": [
		{"dt": 1756554000, "main": {"temp": 16, "feels_like": 15, "humidity": 60}, "wind": {"speed": 3, "deg": 180}, "pop": 0.4, "rain": {"3h": 0.6}, "weather": [{"id": 500}]},
		{"dt": 1756564800, "main": {"temp": 19, "feels_like": 18, "humidity": 55}, "wind": {"speed": 4, "deg": 190}, "pop": 0.1, "weather": [{"id": 801}]}
	]
}`

func TestFetchRawComprehensive(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/2.5/weather":
			io.WriteString(w, currentBody)
		case "/data/3.0/onecall":
			io.WriteString(w, onecallBody)
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	p, err := c.FetchRaw(context.Background(), weather.Location{Latitude: 39.74, Longitude: -104.99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Kind != weather.PayloadComprehensive {
		t.Fatalf("kind = %q, want comprehensive", p.Kind)
	}
	if !p.HasUVIndex || p.UVIndex != 6.1 {
		t.Errorf("uv = %v (has=%v), want 6.1", p.UVIndex, p.HasUVIndex)
	}
	if len(p.Daily) != 1 || len(p.Hourly) != 1 {
		t.Errorf("daily/hourly = %d/%d, want 1/1", len(p.Daily), len(p.Hourly))
	}
	if !p.Daily[0].HasUVIndex || p.Daily[0].UVIndex != 6 {
		t.Errorf("daily uv = %v (has=%v), want 6", p.Daily[0].UVIndex, p.Daily[0].HasUVIndex)
	}
	if p.Current.ConditionCode != 801 {
		t.Errorf("current condition = %d, want 801", p.Current.ConditionCode)
	}
}

func TestFetchRawFallsBackToLegacyForecast(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/2.5/weather":
			io.WriteString(w, currentBody)
		case "/data/3.0/onecall":
			w.WriteHeader(http.StatusNotFound)
		case "/data/2.5/forecast":
			io.WriteString(w, forecastBody)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	p, err := c.FetchRaw(context.Background(), weather.Location{Latitude: 39.74, Longitude: -104.99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Kind != weather.PayloadLegacy {
		t.Fatalf("kind = %q, want legacy", p.Kind)
	}
	if len(p.Intervals) != 2 {
		t.Errorf("intervals = %d, want 2", len(p.Intervals))
	}
	if p.Intervals[0].RainMm != 0.6 {
		t.Errorf("interval rain = %v, want 0.6", p.Intervals[0].RainMm)
	}
	if p.HasUVIndex {
		t.Error("legacy payload should not report a uv reading")
	}
}

func TestFetchRawAuthFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.FetchRaw(context.Background(), weather.Location{Latitude: 39.74, Longitude: -104.99})
	if !errors.Is(err, weather.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestFetchRawAllForecastEndpointsDown(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data/2.5/weather" {
			io.WriteString(w, currentBody)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.FetchRaw(context.Background(), weather.Location{Latitude: 39.74, Longitude: -104.99})
	if !errors.Is(err, weather.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestFetchRawMalformedBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"truncated`)
	}))

	_, err := c.FetchRaw(context.Background(), weather.Location{Latitude: 39.74, Longitude: -104.99})
	if !errors.Is(err, weather.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestResolveTextQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geo/1.0/direct" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Denver" {
			t.Errorf("q = %q, want Denver", got)
		}
		io.WriteString(w, `[{"name": "Denver", "state": "Colorado", "country": "US", "lat": 39.74, "lon": -104.99}]`)
	}))

	loc, err := c.Resolve(context.Background(), weather.Query{Text: "Denver"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Name != "Denver" || loc.Region != "Colorado" || loc.Country != "US" {
		t.Errorf("unexpected location: %+v", loc)
	}
	if loc.Timezone == "" || loc.LocalTime == "" {
		t.Error("timezone and local time must always be populated")
	}
}

func TestResolveUnknownText(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))

	_, err := c.Resolve(context.Background(), weather.Query{Text: "Nonexistentville"})
	if !errors.Is(err, weather.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestResolveCoordsWithEmptyReverse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geo/1.0/reverse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `[]`)
	}))

	loc, err := c.Resolve(context.Background(), weather.Query{Coords: &weather.Coords{Lat: 39.74, Lon: -104.99}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Name != "39.7400, -104.9900" {
		t.Errorf("name = %q, want the raw coordinates", loc.Name)
	}
	if loc.Latitude != 39.74 || loc.Longitude != -104.99 {
		t.Errorf("coordinates not preserved: %+v", loc)
	}
}

func TestResolveWithoutAPIKey(t *testing.T) {
	c := NewOpenWeatherClient(http.DefaultClient, "", nil, testLogger())
	_, err := c.Resolve(context.Background(), weather.Query{Text: "Denver"})
	if !errors.Is(err, weather.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}
