package weather

import (
	"fmt"
	"strconv"
	"time"
)

const (
	dateFormat  = "2006-01-02"
	clockFormat = "3:04 PM"

	// Day counts per payload tier: One Call supplies up to 8 pre-aggregated
	// days; the legacy 3-hourly feed is grouped into at most 3.
	maxComprehensiveDays = 8
	maxLegacyDays        = 3

	// UV index substituted when the provider tier does not report one.
	defaultUVIndex = 5
)

// Normalize assembles the canonical WeatherModel from a validated provider
// payload. It branches on the payload kind, guarantees at least one forecast
// day, and resamples any hourly data so each day carries exactly 24 slices or
// none.
func Normalize(p ProviderPayload, loc Location) (*WeatherModel, error) {
	if p.Current.ObservedAt.IsZero() {
		return nil, fmt.Errorf("%w: missing observation timestamp", ErrMalformedPayload)
	}

	tz := locationZone(loc)
	isDay := IsDaytime(p.Current.ObservedAt, p.Current.Sunrise, p.Current.Sunset)
	current := normalizeCurrent(p, isDay)

	var days []DayForecast
	switch p.Kind {
	case PayloadComprehensive:
		days = daysFromDaily(p, tz)
	case PayloadLegacy:
		days = daysFromIntervals(p, tz)
	default:
		return nil, fmt.Errorf("%w: unrecognized payload kind %q", ErrMalformedPayload, p.Kind)
	}

	today := p.Current.ObservedAt.In(tz).Format(dateFormat)
	days = dropStaleDays(days, today)
	// days[0] must be today at the location. A late-evening fetch can leave
	// the legacy feed starting after local midnight, so a today-day built
	// from the current observation is prepended when the series starts in
	// the future.
	if len(days) == 0 || days[0].Date != today {
		days = append([]DayForecast{synthesizeDay(p, tz)}, days...)
	}

	return &WeatherModel{Location: loc, Current: current, Days: days}, nil
}

// locationZone loads the resolved timezone, falling back to UTC so a bad or
// missing identifier degrades grouping rather than failing the pipeline.
func locationZone(loc Location) *time.Location {
	if loc.Timezone == "" {
		return time.UTC
	}
	tz, err := time.LoadLocation(loc.Timezone)
	if err != nil {
		return time.UTC
	}
	return tz
}

func normalizeCurrent(p ProviderPayload, isDay bool) CurrentConditions {
	cur := p.Current

	uv := float64(defaultUVIndex)
	if p.HasUVIndex {
		uv = p.UVIndex
	}

	cc := CurrentConditions{
		TempC:      roundHalfUp(cur.TempC),
		FeelsLikeC: roundHalfUp(cur.FeelsLikeC),
		Humidity:   ClampPercent(cur.HumidityPct),
		WindKph:    MetersPerSecondToKph(cur.WindSpeedMS),
		WindMph:    MetersPerSecondToMph(cur.WindSpeedMS),
		WindDegree: cur.WindDeg,
		WindDir:    WindDirection(cur.WindDeg),
		PressureMb: cur.PressureHpa,
		PressureIn: HpaToInHg(cur.PressureHpa),
		PrecipMm:   cur.Precip1hMm,
		CloudCover: ClampPercent(cur.CloudCoverPct),
		UVIndex:    uv,
		VisKm:      MetersToKm(cur.VisibilityM),
		VisMiles:   MetersToMiles(cur.VisibilityM),
		IsDay:      isDay,
		Condition:  MapCondition(cur.ConditionCode, isDay),
		ObservedAt: cur.ObservedAt,
	}
	cc.TempF = CelsiusToFahrenheit(cc.TempC)
	cc.FeelsLikeF = CelsiusToFahrenheit(cc.FeelsLikeC)
	if cur.WindGustMS > 0 {
		cc.GustKph = MetersPerSecondToKph(cur.WindGustMS)
		cc.GustMph = MetersPerSecondToMph(cur.WindGustMS)
	}
	return cc
}

// daysFromDaily maps the pre-aggregated One Call days and attaches hourly
// slices grouped by local calendar date.
func daysFromDaily(p ProviderPayload, tz *time.Location) []DayForecast {
	hourlyByDate := make(map[string][]HourlyEntry)
	for _, h := range p.Hourly {
		date := h.At.In(tz).Format(dateFormat)
		hourlyByDate[date] = append(hourlyByDate[date], h)
	}

	days := make([]DayForecast, 0, maxComprehensiveDays)
	for _, d := range p.Daily {
		if len(days) >= maxComprehensiveDays {
			break
		}

		local := d.At.In(tz)
		date := local.Format(dateFormat)

		day := DayForecast{
			Date:          date,
			MinTempC:      roundHalfUp(d.MinTempC),
			MaxTempC:      roundHalfUp(d.MaxTempC),
			AvgTempC:      roundHalfUp(d.DayTempC),
			Condition:     MapCondition(d.ConditionCode, true),
			UVIndex:       defaultUVIndex,
			ChanceOfRain:  ClampPercent(roundHalfUp(d.Pop * 100)),
			TotalPrecipMm: d.RainMm,
			MaxWindKph:    MetersPerSecondToKph(d.WindSpeedMS),
			AvgHumidity:   ClampPercent(d.HumidityPct),
			Astro:         astroFromDaily(d, tz),
		}
		if d.HasUVIndex {
			day.UVIndex = d.UVIndex
		}
		day.MinTempF = CelsiusToFahrenheit(day.MinTempC)
		day.MaxTempF = CelsiusToFahrenheit(day.MaxTempC)
		day.AvgTempF = CelsiusToFahrenheit(day.AvgTempC)

		dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
		day.Hours = resampleHours(dayStart, hourlyByDate[date], d.Sunrise, d.Sunset)

		days = append(days, day)
	}
	return days
}

func astroFromDaily(d DailyEntry, tz *time.Location) Astro {
	a := Astro{
		Sunrise:          clockOrNA(d.Sunrise, tz),
		Sunset:           clockOrNA(d.Sunset, tz),
		Moonrise:         clockOrNA(d.Moonrise, tz),
		Moonset:          clockOrNA(d.Moonset, tz),
		MoonPhase:        strconv.FormatFloat(d.MoonPhase, 'f', -1, 64),
		MoonIllumination: strconv.Itoa(int(roundHalfUp(d.MoonPhase * 100))),
	}
	return a
}

func clockOrNA(t time.Time, tz *time.Location) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.In(tz).Format(clockFormat)
}

// daysFromIntervals groups raw 3-hourly entries into local calendar days.
// Aggregates are taken over the raw group: min/max/avg temperature, the
// maximum precipitation probability as the day's rain chance, and the
// near-midday entry (else the first) as the representative condition.
func daysFromIntervals(p ProviderPayload, tz *time.Location) []DayForecast {
	grouped := make(map[string][]HourlyEntry)
	var order []string
	for _, e := range p.Intervals {
		date := e.At.In(tz).Format(dateFormat)
		if _, seen := grouped[date]; !seen {
			order = append(order, date)
		}
		grouped[date] = append(grouped[date], e)
	}

	days := make([]DayForecast, 0, maxLegacyDays)
	for _, date := range order {
		if len(days) >= maxLegacyDays {
			break
		}
		entries := grouped[date]

		minT, maxT := entries[0].TempC, entries[0].TempC
		var sumT, sumHum, sumRain, maxPop, maxWindMS float64
		rep := entries[0]
		repFound := false
		for _, e := range entries {
			if e.TempC < minT {
				minT = e.TempC
			}
			if e.TempC > maxT {
				maxT = e.TempC
			}
			sumT += e.TempC
			sumHum += e.HumidityPct
			sumRain += e.RainMm
			if e.Pop > maxPop {
				maxPop = e.Pop
			}
			if e.WindSpeedMS > maxWindMS {
				maxWindMS = e.WindSpeedMS
			}
			if !repFound {
				hour := e.At.In(tz).Hour()
				if hour >= 12 && hour <= 14 {
					rep = e
					repFound = true
				}
			}
		}
		n := float64(len(entries))

		day := DayForecast{
			Date:          date,
			MinTempC:      roundHalfUp(minT),
			MaxTempC:      roundHalfUp(maxT),
			AvgTempC:      roundHalfUp(sumT / n),
			Condition:     MapCondition(rep.ConditionCode, true),
			UVIndex:       defaultUVIndex,
			ChanceOfRain:  ClampPercent(roundHalfUp(maxPop * 100)),
			TotalPrecipMm: sumRain,
			MaxWindKph:    MetersPerSecondToKph(maxWindMS),
			AvgHumidity:   ClampPercent(roundHalfUp(sumHum / n)),
			Astro: Astro{
				Sunrise:          clockOrNA(p.Current.Sunrise, tz),
				Sunset:           clockOrNA(p.Current.Sunset, tz),
				Moonrise:         NotAvailable,
				Moonset:          NotAvailable,
				MoonPhase:        NotAvailable,
				MoonIllumination: NotAvailable,
			},
		}
		day.MinTempF = CelsiusToFahrenheit(day.MinTempC)
		day.MaxTempF = CelsiusToFahrenheit(day.MaxTempC)
		day.AvgTempF = CelsiusToFahrenheit(day.AvgTempC)

		local := entries[0].At.In(tz)
		dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
		day.Hours = resampleHours(dayStart, entries, p.Current.Sunrise, p.Current.Sunset)

		days = append(days, day)
	}
	return days
}

// resampleHours builds exactly 24 hour slices for the day starting at
// dayStart by picking the nearest source record for each hour, or returns nil
// when no records cover the day. Downstream chart consumers rely on the
// 24-or-0 shape.
func resampleHours(dayStart time.Time, records []HourlyEntry, sunrise, sunset time.Time) []HourSlice {
	if len(records) == 0 {
		return nil
	}

	hours := make([]HourSlice, 0, 24)
	for h := 0; h < 24; h++ {
		slot := dayStart.Add(time.Duration(h) * time.Hour)

		nearest := records[0]
		best := absDuration(records[0].At.Sub(slot))
		for _, r := range records[1:] {
			if d := absDuration(r.At.Sub(slot)); d < best {
				best = d
				nearest = r
			}
		}

		slice := HourSlice{
			Time:         slot,
			TempC:        roundHalfUp(nearest.TempC),
			FeelsLikeC:   roundHalfUp(nearest.FeelsLikeC),
			WindKph:      MetersPerSecondToKph(nearest.WindSpeedMS),
			WindMph:      MetersPerSecondToMph(nearest.WindSpeedMS),
			WindDir:      WindDirection(nearest.WindDeg),
			Humidity:     ClampPercent(nearest.HumidityPct),
			Condition:    MapCondition(nearest.ConditionCode, IsDaytime(slot, sunrise, sunset)),
			ChanceOfRain: ClampPercent(roundHalfUp(nearest.Pop * 100)),
		}
		slice.TempF = CelsiusToFahrenheit(slice.TempC)
		slice.FeelsLikeF = CelsiusToFahrenheit(slice.FeelsLikeC)
		hours = append(hours, slice)
	}
	return hours
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// dropStaleDays removes days before the current local date so days[0] is
// always today at the resolved location. Date strings compare lexically.
func dropStaleDays(days []DayForecast, today string) []DayForecast {
	kept := days[:0]
	for _, d := range days {
		if d.Date >= today {
			kept = append(kept, d)
		}
	}
	return kept
}

// synthesizeDay builds a single forecast day from the current observation so
// the model always carries at least one day even when forecast data is empty.
func synthesizeDay(p ProviderPayload, tz *time.Location) DayForecast {
	cur := p.Current

	minT, maxT := cur.TempMinC, cur.TempMaxC
	if minT == 0 && maxT == 0 {
		minT, maxT = cur.TempC, cur.TempC
	}

	day := DayForecast{
		Date:        cur.ObservedAt.In(tz).Format(dateFormat),
		MinTempC:    roundHalfUp(minT),
		MaxTempC:    roundHalfUp(maxT),
		AvgTempC:    roundHalfUp(cur.TempC),
		Condition:   MapCondition(cur.ConditionCode, true),
		UVIndex:     defaultUVIndex,
		MaxWindKph:  MetersPerSecondToKph(cur.WindSpeedMS),
		AvgHumidity: ClampPercent(cur.HumidityPct),
		Astro: Astro{
			Sunrise:          clockOrNA(cur.Sunrise, tz),
			Sunset:           clockOrNA(cur.Sunset, tz),
			Moonrise:         NotAvailable,
			Moonset:          NotAvailable,
			MoonPhase:        NotAvailable,
			MoonIllumination: NotAvailable,
		},
	}
	day.MinTempF = CelsiusToFahrenheit(day.MinTempC)
	day.MaxTempF = CelsiusToFahrenheit(day.MaxTempC)
	day.AvgTempF = CelsiusToFahrenheit(day.AvgTempC)
	return day
}
