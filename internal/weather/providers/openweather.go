package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"log/slog"

	"github.com/sony/gobreaker"

	"weathermood/internal/weather"
)

// TimezoneResolver maps coordinates to an IANA timezone identifier. An empty
// result means the zone could not be determined.
type TimezoneResolver interface {
	TimezoneName(lat, lon float64) string
}

// OpenWeatherClient talks to the OpenWeatherMap API. It implements both
// weather.Geocoder and weather.ProviderClient: geocoding via the geo API, and
// forecasts via a two-tier fetch that prefers the One Call endpoint and falls
// back to the legacy 3-hourly forecast when One Call is not accessible.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	tz      TimezoneResolver
	logger  *slog.Logger

	geoCircuit      *gobreaker.CircuitBreaker
	currentCircuit  *gobreaker.CircuitBreaker
	onecallCircuit  *gobreaker.CircuitBreaker
	forecastCircuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(client *http.Client, apiKey string, tz TimezoneResolver, logger *slog.Logger) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:          apiKey,
		baseURL:         "https://api.openweathermap.org",
		httpCfg:         DefaultHTTPClientConfig(client),
		tz:              tz,
		logger:          logger,
		geoCircuit:      newCircuit("openweather-geo"),
		currentCircuit:  newCircuit("openweather-current"),
		onecallCircuit:  newCircuit("openweather-onecall"),
		forecastCircuit: newCircuit("openweather-forecast"),
	}
}

type geocodeEntry struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Resolve implements weather.Geocoder. Text queries use the direct geocoding
// endpoint; coordinate queries use reverse geocoding and keep the raw
// coordinates as the display name when nothing is found nearby.
func (c *OpenWeatherClient) Resolve(ctx context.Context, q weather.Query) (weather.Location, error) {
	if c.apiKey == "" {
		return weather.Location{}, fmt.Errorf("%w: api key not configured", weather.ErrAuthentication)
	}

	var entries []geocodeEntry
	var err error
	if q.Coords != nil {
		entries, err = c.geocode(ctx, "/geo/1.0/reverse", url.Values{
			"lat": {fmt.Sprintf("%f", q.Coords.Lat)},
			"lon": {fmt.Sprintf("%f", q.Coords.Lon)},
		})
	} else {
		entries, err = c.geocode(ctx, "/geo/1.0/direct", url.Values{
			"q": {q.Text},
		})
	}
	if err != nil {
		return weather.Location{}, err
	}

	if len(entries) == 0 {
		if q.Coords == nil {
			return weather.Location{}, fmt.Errorf("%w: %q", weather.ErrLocationNotFound, q.Text)
		}
		// Reverse geocoding found nothing nearby; keep the coordinates.
		entries = []geocodeEntry{{
			Name: q.DisplayName(),
			Lat:  q.Coords.Lat,
			Lon:  q.Coords.Lon,
		}}
	}

	e := entries[0]
	loc := weather.Location{
		Name:      e.Name,
		Region:    e.State,
		Country:   e.Country,
		Latitude:  e.Lat,
		Longitude: e.Lon,
		Timezone:  "UTC",
	}
	if c.tz != nil {
		if name := c.tz.TimezoneName(e.Lat, e.Lon); name != "" {
			loc.Timezone = name
		}
	}
	if tz, err := time.LoadLocation(loc.Timezone); err == nil {
		loc.LocalTime = time.Now().In(tz).Format(time.RFC3339)
	} else {
		loc.LocalTime = time.Now().UTC().Format(time.RFC3339)
	}
	return loc, nil
}

func (c *OpenWeatherClient) geocode(ctx context.Context, path string, values url.Values) ([]geocodeEntry, error) {
	values.Set("limit", "1")
	var entries []geocodeEntry
	if err := c.getJSON(ctx, c.geoCircuit, path, values, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchRaw implements weather.ProviderClient. The current observation and the
// One Call forecast are fetched concurrently; when One Call fails for any
// reason other than bad credentials, the legacy 3-hourly forecast endpoint is
// tried before giving up.
func (c *OpenWeatherClient) FetchRaw(ctx context.Context, loc weather.Location) (weather.ProviderPayload, error) {
	if c.apiKey == "" {
		return weather.ProviderPayload{}, fmt.Errorf("%w: api key not configured", weather.ErrAuthentication)
	}

	coords := url.Values{
		"lat": {fmt.Sprintf("%f", loc.Latitude)},
		"lon": {fmt.Sprintf("%f", loc.Longitude)},
	}

	var (
		wg         sync.WaitGroup
		current    currentResponse
		onecall    onecallResponse
		currentErr error
		onecallErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		currentErr = c.getJSON(ctx, c.currentCircuit, "/data/2.5/weather", cloneValues(coords), &current)
	}()
	go func() {
		defer wg.Done()
		vals := cloneValues(coords)
		vals.Set("exclude", "minutely,alerts")
		onecallErr = c.getJSON(ctx, c.onecallCircuit, "/data/3.0/onecall", vals, &onecall)
	}()
	wg.Wait()

	if currentErr != nil {
		if errors.Is(currentErr, weather.ErrAuthentication) || errors.Is(currentErr, weather.ErrMalformedPayload) {
			return weather.ProviderPayload{}, currentErr
		}
		return weather.ProviderPayload{}, fmt.Errorf("%w: current weather: %v", weather.ErrProviderUnavailable, currentErr)
	}

	obs := current.observation()

	if onecallErr == nil {
		return buildComprehensive(obs, onecall), nil
	}
	if errors.Is(onecallErr, weather.ErrAuthentication) {
		return weather.ProviderPayload{}, onecallErr
	}
	if errors.Is(onecallErr, weather.ErrMalformedPayload) {
		return weather.ProviderPayload{}, onecallErr
	}

	c.logger.Info("one call unavailable, using legacy forecast",
		slog.String("location", loc.Name),
		slog.Any("error", onecallErr),
	)

	var forecast forecastResponse
	if err := c.getJSON(ctx, c.forecastCircuit, "/data/2.5/forecast", cloneValues(coords), &forecast); err != nil {
		if errors.Is(err, weather.ErrAuthentication) || errors.Is(err, weather.ErrMalformedPayload) {
			return weather.ProviderPayload{}, err
		}
		return weather.ProviderPayload{}, fmt.Errorf("%w: all forecast endpoints failed: %v", weather.ErrProviderUnavailable, err)
	}

	return buildLegacy(obs, forecast), nil
}

func (c *OpenWeatherClient) getJSON(ctx context.Context, cb *gobreaker.CircuitBreaker, path string, values url.Values, out interface{}) error {
	buildRequest := func() (*http.Request, error) {
		values.Set("appid", c.apiKey)
		values.Set("units", "metric")
		u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, cb, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", weather.ErrMalformedPayload, path, err)
	}
	return nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

type conditionRef struct {
	ID int `json:"id"`
}

type currentResponse struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		FeelsLik float64 `json:"feels_like"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Pressure float64 `json:"pressure"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneH float64 `json:"1h"`
	} `json:"rain"`
	Visibility float64 `json:"visibility"`
	Sys        struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Weather []conditionRef `json:"weather"`
}

func (r currentResponse) observation() weather.CurrentObservation {
	obs := weather.CurrentObservation{
		ObservedAt:    time.Unix(r.Dt, 0).UTC(),
		TempC:         r.Main.Temp,
		TempMinC:      r.Main.TempMin,
		TempMaxC:      r.Main.TempMax,
		FeelsLikeC:    r.Main.FeelsLik,
		HumidityPct:   r.Main.Humidity,
		PressureHpa:   r.Main.Pressure,
		WindSpeedMS:   r.Wind.Speed,
		WindGustMS:    r.Wind.Gust,
		WindDeg:       r.Wind.Deg,
		CloudCoverPct: r.Clouds.All,
		VisibilityM:   r.Visibility,
		Precip1hMm:    r.Rain.OneH,
	}
	if r.Sys.Sunrise > 0 {
		obs.Sunrise = time.Unix(r.Sys.Sunrise, 0).UTC()
	}
	if r.Sys.Sunset > 0 {
		obs.Sunset = time.Unix(r.Sys.Sunset, 0).UTC()
	}
	if len(r.Weather) > 0 {
		obs.ConditionCode = r.Weather[0].ID
	}
	if obs.ObservedAt.Unix() == 0 {
		obs.ObservedAt = time.Now().UTC()
	}
	return obs
}

type onecallResponse struct {
	Current struct {
		Uvi float64 `json:"uvi"`
	} `json:"current"`
	Hourly []struct {
		Dt        int64   `json:"dt"`
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		WindSpeed float64 `json:"wind_speed"`
		WindDeg   float64 `json:"wind_deg"`
		Pop       float64 `json:"pop"`
		Rain      struct {
			OneH float64 `json:"1h"`
		} `json:"rain"`
		Weather []conditionRef `json:"weather"`
	} `json:"hourly"`
	Daily []struct {
		Dt        int64   `json:"dt"`
		Sunrise   int64   `json:"sunrise"`
		Sunset    int64   `json:"sunset"`
		Moonrise  int64   `json:"moonrise"`
		Moonset   int64   `json:"moonset"`
		MoonPhase float64 `json:"moon_phase"`
		Temp      struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
			Day float64 `json:"day"`
		} `json:"temp"`
		Humidity  float64        `json:"humidity"`
		WindSpeed float64        `json:"wind_speed"`
		Uvi       *float64       `json:"uvi"`
		Pop       float64        `json:"pop"`
		Rain      float64        `json:"rain"`
		Weather   []conditionRef `json:"weather"`
	} `json:"daily"`
}

func buildComprehensive(obs weather.CurrentObservation, oc onecallResponse) weather.ProviderPayload {
	p := weather.ProviderPayload{
		Kind:       weather.PayloadComprehensive,
		Current:    obs,
		UVIndex:    oc.Current.Uvi,
		HasUVIndex: true,
	}

	for _, d := range oc.Daily {
		entry := weather.DailyEntry{
			At:          time.Unix(d.Dt, 0).UTC(),
			MoonPhase:   d.MoonPhase,
			MinTempC:    d.Temp.Min,
			MaxTempC:    d.Temp.Max,
			DayTempC:    d.Temp.Day,
			HumidityPct: d.Humidity,
			WindSpeedMS: d.WindSpeed,
			Pop:         d.Pop,
			RainMm:      d.Rain,
		}
		if d.Uvi != nil {
			entry.UVIndex = *d.Uvi
			entry.HasUVIndex = true
		}
		if d.Sunrise > 0 {
			entry.Sunrise = time.Unix(d.Sunrise, 0).UTC()
		}
		if d.Sunset > 0 {
			entry.Sunset = time.Unix(d.Sunset, 0).UTC()
		}
		if d.Moonrise > 0 {
			entry.Moonrise = time.Unix(d.Moonrise, 0).UTC()
		}
		if d.Moonset > 0 {
			entry.Moonset = time.Unix(d.Moonset, 0).UTC()
		}
		if len(d.Weather) > 0 {
			entry.ConditionCode = d.Weather[0].ID
		}
		p.Daily = append(p.Daily, entry)
	}

	for _, h := range oc.Hourly {
		entry := weather.HourlyEntry{
			At:          time.Unix(h.Dt, 0).UTC(),
			TempC:       h.Temp,
			FeelsLikeC:  h.FeelsLike,
			HumidityPct: h.Humidity,
			WindSpeedMS: h.WindSpeed,
			WindDeg:     h.WindDeg,
			Pop:         h.Pop,
			RainMm:      h.Rain.OneH,
		}
		if len(h.Weather) > 0 {
			entry.ConditionCode = h.Weather[0].ID
		}
		p.Hourly = append(p.Hourly, entry)
	}

	return p
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Pop  float64 `json:"pop"`
		Rain struct {
			ThreeH float64 `json:"3h"`
		} `json:"rain"`
		Weather []conditionRef `json:"weather"`
	} `json:"list"`
}

func buildLegacy(obs weather.CurrentObservation, fc forecastResponse) weather.ProviderPayload {
	p := weather.ProviderPayload{
		Kind:    weather.PayloadLegacy,
		Current: obs,
	}
	for _, item := range fc.List {
		entry := weather.HourlyEntry{
			At:          time.Unix(item.Dt, 0).UTC(),
			TempC:       item.Main.Temp,
			FeelsLikeC:  item.Main.FeelsLike,
			HumidityPct: item.Main.Humidity,
			WindSpeedMS: item.Wind.Speed,
			WindDeg:     item.Wind.Deg,
			Pop:         item.Pop,
			RainMm:      item.Rain.ThreeH,
		}
		if len(item.Weather) > 0 {
			entry.ConditionCode = item.Weather[0].ID
		}
		p.Intervals = append(p.Intervals, entry)
	}
	return p
}
