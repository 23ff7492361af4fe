package weather

import (
	"math"
	"time"
)

const fallbackDays = 3

// Deterministic rain chances keyed by hour of day; hours not listed derive a
// small stable value so repeated renders never flicker.
var fallbackRainChance = map[int]float64{
	9:  25,
	12: 60,
	15: 50,
	18: 80,
	21: 50,
}

// fallbackConditionCodes cycles the synthetic days through a few plausible
// states instead of three identical ones.
var fallbackConditionCodes = [fallbackDays]int{801, 804, 501}

// FallbackModel builds a fully populated synthetic WeatherModel for the query.
// It is deterministic for a given query and day so repeated degraded renders
// are stable, and every numeric field is finite.
func FallbackModel(q Query, now time.Time) *WeatherModel {
	now = now.UTC()

	loc := Location{
		Name:      q.DisplayName(),
		Country:   NotAvailable,
		Timezone:  "UTC",
		LocalTime: now.Format(time.RFC3339),
	}
	if q.Coords != nil {
		loc.Latitude = q.Coords.Lat
		loc.Longitude = q.Coords.Lon
	}

	curHour := now.Hour()
	cond := MapCondition(fallbackConditionCodes[0], isFallbackDay(curHour))

	current := CurrentConditions{
		TempC:      fallbackTemp(curHour),
		Humidity:   65,
		WindKph:    12,
		WindMph:    KphToMph(12),
		WindDegree: 225,
		WindDir:    WindDirection(225),
		PressureMb: 1013,
		PressureIn: HpaToInHg(1013),
		CloudCover: 40,
		UVIndex:    defaultUVIndex,
		VisKm:      10,
		VisMiles:   MetersToMiles(10000),
		IsDay:      isFallbackDay(curHour),
		Condition:  cond,
		ObservedAt: now,
	}
	current.FeelsLikeC = current.TempC
	current.TempF = CelsiusToFahrenheit(current.TempC)
	current.FeelsLikeF = CelsiusToFahrenheit(current.FeelsLikeC)

	days := make([]DayForecast, 0, fallbackDays)
	for i := 0; i < fallbackDays; i++ {
		days = append(days, fallbackDay(now.AddDate(0, 0, i), fallbackConditionCodes[i]))
	}

	return &WeatherModel{Location: loc, Current: current, Days: days}
}

// fallbackTemp follows a mild diurnal curve centered on 14 degrees C.
func fallbackTemp(hour int) float64 {
	return roundHalfUp(14 + math.Sin(float64(hour)/24*2*math.Pi)*8)
}

func isFallbackDay(hour int) bool {
	return hour >= 6 && hour < 18
}

func fallbackDay(date time.Time, code int) DayForecast {
	hours := make([]HourSlice, 0, 24)
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	minT, maxT := math.MaxFloat64, -math.MaxFloat64
	var sumT float64

	for h := 0; h < 24; h++ {
		t := fallbackTemp(h)
		if t < minT {
			minT = t
		}
		if t > maxT {
			maxT = t
		}
		sumT += t

		slice := HourSlice{
			Time:         dayStart.Add(time.Duration(h) * time.Hour),
			TempC:        t,
			FeelsLikeC:   t,
			WindKph:      12,
			WindMph:      KphToMph(12),
			WindDir:      WindDirection(225),
			Humidity:     65,
			Condition:    MapCondition(code, isFallbackDay(h)),
			ChanceOfRain: fallbackHourRain(h),
		}
		slice.TempF = CelsiusToFahrenheit(slice.TempC)
		slice.FeelsLikeF = CelsiusToFahrenheit(slice.FeelsLikeC)
		hours = append(hours, slice)
	}

	day := DayForecast{
		Date:         dayStart.Format(dateFormat),
		MinTempC:     minT,
		MaxTempC:     maxT,
		AvgTempC:     roundHalfUp(sumT / 24),
		Condition:    MapCondition(code, true),
		UVIndex:      defaultUVIndex,
		ChanceOfRain: fallbackRainChance[18],
		MaxWindKph:   12,
		AvgHumidity:  65,
		Astro: Astro{
			Sunrise:          "6:00 AM",
			Sunset:           "6:00 PM",
			Moonrise:         NotAvailable,
			Moonset:          NotAvailable,
			MoonPhase:        NotAvailable,
			MoonIllumination: NotAvailable,
		},
		Hours: hours,
	}
	day.MinTempF = CelsiusToFahrenheit(day.MinTempC)
	day.MaxTempF = CelsiusToFahrenheit(day.MaxTempC)
	day.AvgTempF = CelsiusToFahrenheit(day.AvgTempC)
	return day
}

func fallbackHourRain(hour int) float64 {
	if c, ok := fallbackRainChance[hour]; ok {
		return c
	}
	return float64((hour*7)%20 + 5)
}
