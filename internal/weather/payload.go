package weather

import "time"

// PayloadKind tags which provider response shape a ProviderPayload carries.
// The normalizer branches on this tag exhaustively instead of sniffing fields.
type PayloadKind string

const (
	// PayloadComprehensive: the One Call response with pre-aggregated daily
	// and hourly series.
	PayloadComprehensive PayloadKind = "comprehensive"
	// PayloadLegacy: the older forecast endpoint returning raw 3-hourly
	// entries that must be grouped into calendar days here.
	PayloadLegacy PayloadKind = "legacy"
)

// CurrentObservation is the validated current-weather reading, metric units.
type CurrentObservation struct {
	ObservedAt    time.Time
	TempC         float64
	TempMinC      float64
	TempMaxC      float64
	FeelsLikeC    float64
	HumidityPct   float64
	PressureHpa   float64
	WindSpeedMS   float64
	WindGustMS    float64
	WindDeg       float64
	CloudCoverPct float64
	VisibilityM   float64
	Precip1hMm    float64
	ConditionCode int
	Sunrise       time.Time
	Sunset        time.Time
}

// DailyEntry is one pre-aggregated forecast day from the comprehensive shape.
type DailyEntry struct {
	At            time.Time
	Sunrise       time.Time
	Sunset        time.Time
	Moonrise      time.Time
	Moonset       time.Time
	MoonPhase     float64 // 0..1
	MinTempC      float64
	MaxTempC      float64
	DayTempC      float64
	HumidityPct   float64
	WindSpeedMS   float64
	UVIndex       float64
	HasUVIndex    bool    // distinguishes a genuine 0 reading from absence
	Pop           float64 // precipitation probability, 0..1
	RainMm        float64
	ConditionCode int
}

// HourlyEntry is a single time-stamped forecast record. The comprehensive
// shape supplies these at 1-hour spacing, the legacy shape at 3-hour spacing.
type HourlyEntry struct {
	At            time.Time
	TempC         float64
	FeelsLikeC    float64
	HumidityPct   float64
	WindSpeedMS   float64
	WindDeg       float64
	Pop           float64 // 0..1
	RainMm        float64 // accumulation over the record's interval
	ConditionCode int
}

// ProviderPayload is the validated, strongly-typed input to the normalizer.
// The provider client populates exactly one forecast branch per Kind:
// Daily+Hourly for comprehensive, Intervals for legacy.
type ProviderPayload struct {
	Kind    PayloadKind
	Current CurrentObservation

	// UVIndex is the current UV reading; only the comprehensive tier has it.
	UVIndex    float64
	HasUVIndex bool

	Daily     []DailyEntry
	Hourly    []HourlyEntry
	Intervals []HourlyEntry
}
