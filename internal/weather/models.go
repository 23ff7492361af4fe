package weather

import (
	"fmt"
	"time"
)

// NotAvailable is the sentinel rendered for astro fields the provider does not
// supply. Consumers print this value directly, so it must never be empty.
const NotAvailable = "Not available"

// Coords is a latitude/longitude pair in decimal degrees.
type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Query identifies a place either by free text (search box) or by coordinates
// (geolocation). Exactly one of the two forms is expected to be set.
type Query struct {
	Text   string
	Coords *Coords
}

// Key returns a canonical string key for indexing this query in stores.
func (q Query) Key() string {
	if q.Coords != nil {
		return fmt.Sprintf("%.4f,%.4f", q.Coords.Lat, q.Coords.Lon)
	}
	return q.Text
}

// DisplayName is the best human-readable label available before geocoding.
func (q Query) DisplayName() string {
	if q.Text != "" {
		return q.Text
	}
	if q.Coords != nil {
		return fmt.Sprintf("%.4f, %.4f", q.Coords.Lat, q.Coords.Lon)
	}
	return ""
}

// Location is a resolved place. Immutable once produced; a new search
// re-resolves from scratch.
type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region,omitempty"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Timezone  string  `json:"tzId"`      // IANA name, e.g. "America/Denver"
	LocalTime string  `json:"localtime"` // ISO-8601 at the location
}

// Condition is the canonical weather condition triple. Always produced by
// MapCondition, never constructed by consumers.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// CurrentConditions holds the normalized current observation. Temperatures and
// speeds carry both unit systems; the imperial value is always derived from
// the metric one so the pair cannot diverge.
type CurrentConditions struct {
	TempC      float64   `json:"tempC"`
	TempF      float64   `json:"tempF"`
	FeelsLikeC float64   `json:"feelslikeC"`
	FeelsLikeF float64   `json:"feelslikeF"`
	Humidity   float64   `json:"humidity"` // 0-100
	WindKph    float64   `json:"windKph"`
	WindMph    float64   `json:"windMph"`
	WindDegree float64   `json:"windDegree"`
	WindDir    string    `json:"windDir"` // 16-point cardinal
	GustKph    float64   `json:"gustKph,omitempty"`
	GustMph    float64   `json:"gustMph,omitempty"`
	PressureMb float64   `json:"pressureMb"`
	PressureIn float64   `json:"pressureIn"`
	PrecipMm   float64   `json:"precipMm"`
	CloudCover float64   `json:"cloud"` // 0-100
	UVIndex    float64   `json:"uv"`
	VisKm      float64   `json:"visKm"`
	VisMiles   float64   `json:"visMiles"`
	IsDay      bool      `json:"isDay"`
	Condition  Condition `json:"condition"`
	ObservedAt time.Time `json:"lastUpdated"`
}

// HourSlice is one hour of forecast data. A day's series holds exactly 24
// entries or none at all.
type HourSlice struct {
	Time         time.Time `json:"time"`
	TempC        float64   `json:"tempC"`
	TempF        float64   `json:"tempF"`
	FeelsLikeC   float64   `json:"feelslikeC"`
	FeelsLikeF   float64   `json:"feelslikeF"`
	WindKph      float64   `json:"windKph"`
	WindMph      float64   `json:"windMph"`
	WindDir      string    `json:"windDir"`
	Humidity     float64   `json:"humidity"`
	Condition    Condition `json:"condition"`
	ChanceOfRain float64   `json:"chanceOfRain"` // 0-100
}

// Astro holds sun and moon data as display strings. Moon fields fall back to
// NotAvailable when the provider tier does not supply them.
type Astro struct {
	Sunrise          string `json:"sunrise"`
	Sunset           string `json:"sunset"`
	Moonrise         string `json:"moonrise"`
	Moonset          string `json:"moonset"`
	MoonPhase        string `json:"moonPhase"`
	MoonIllumination string `json:"moonIllumination"`
}

// DayForecast is one calendar day at the resolved location.
type DayForecast struct {
	Date          string      `json:"date"` // YYYY-MM-DD, local to the location
	MinTempC      float64     `json:"mintempC"`
	MinTempF      float64     `json:"mintempF"`
	MaxTempC      float64     `json:"maxtempC"`
	MaxTempF      float64     `json:"maxtempF"`
	AvgTempC      float64     `json:"avgtempC"`
	AvgTempF      float64     `json:"avgtempF"`
	Condition     Condition   `json:"condition"`
	UVIndex       float64     `json:"uv"`
	ChanceOfRain  float64     `json:"chanceOfRain"` // 0-100
	TotalPrecipMm float64     `json:"totalPrecipMm"`
	MaxWindKph    float64     `json:"maxWindKph"`
	AvgHumidity   float64     `json:"avgHumidity"`
	Astro         Astro       `json:"astro"`
	Hours         []HourSlice `json:"hours"`
}

// WeatherModel is the canonical artifact every consumer reads. It is always
// fully populated: the pipeline substitutes defaults or a synthetic model
// rather than ever handing out a partial shape.
type WeatherModel struct {
	Location Location          `json:"location"`
	Current  CurrentConditions `json:"current"`
	Days     []DayForecast     `json:"days"`
}
