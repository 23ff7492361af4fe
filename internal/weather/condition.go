package weather

import (
	"fmt"
	"math"
	"time"
)

// Icon references point at the CDN icon set the dashboard ships with. The
// day/night segment is selected from the daylight flag.
const iconBaseURL = "//cdn.weatherapi.com/weather/64x64"

func conditionIcon(iconCode string, isDay bool) string {
	segment := "night"
	if isDay {
		segment = "day"
	}
	return fmt.Sprintf("%s/%s/%s.png", iconBaseURL, segment, iconCode)
}

// MapCondition translates an OpenWeatherMap condition code into the canonical
// Condition. It is total over the integer code space: codes outside every
// documented range map to "Unknown" rather than failing.
// Code ranges per https://openweathermap.org/weather-conditions.
func MapCondition(code int, isDay bool) Condition {
	switch {
	case code >= 200 && code < 300: // thunderstorm
		text := "Thunderstorm"
		if code < 210 {
			text = "Thunderstorm with Rain"
		}
		return Condition{Text: text, Icon: conditionIcon("386", isDay), Code: code}

	case code >= 300 && code < 400: // drizzle
		return Condition{Text: "Drizzle", Icon: conditionIcon("266", isDay), Code: code}

	case code >= 500 && code < 600: // rain, with intensity sub-ranges
		intensity, icon := "Moderate", "296"
		switch code {
		case 500, 520:
			intensity, icon = "Light", "293"
		case 502, 522:
			intensity, icon = "Heavy", "308"
		case 511:
			intensity, icon = "Freezing", "281"
		}
		return Condition{Text: intensity + " Rain", Icon: conditionIcon(icon, isDay), Code: code}

	case code >= 600 && code < 700: // snow, with intensity sub-ranges
		switch code {
		case 611, 612, 613:
			return Condition{Text: "Sleet", Icon: conditionIcon("317", isDay), Code: code}
		}
		intensity, icon := "Moderate", "332"
		switch code {
		case 600:
			intensity, icon = "Light", "326"
		case 602:
			intensity, icon = "Heavy", "338"
		}
		return Condition{Text: intensity + " Snow", Icon: conditionIcon(icon, isDay), Code: code}

	case code >= 700 && code < 800: // atmospheric phenomena, per-code text
		text, icon := "Mist", "143"
		switch code {
		case 711:
			text = "Smoke"
		case 721:
			text = "Haze"
		case 731, 761:
			text = "Dust"
		case 741:
			text, icon = "Fog", "248"
		case 751:
			text = "Sand"
		case 762:
			text = "Volcanic Ash"
		case 771:
			text = "Squalls"
		case 781:
			text, icon = "Tornado", "389"
		}
		return Condition{Text: text, Icon: conditionIcon(icon, isDay), Code: code}

	case code == 800:
		return Condition{Text: "Clear", Icon: conditionIcon("113", isDay), Code: code}

	case code > 800 && code < 900: // increasing cloudiness
		text, icon := "Partly Cloudy", "116"
		switch code {
		case 802:
			text = "Scattered Clouds"
		case 803:
			text, icon = "Broken Clouds", "119"
		case 804:
			text, icon = "Overcast", "122"
		}
		return Condition{Text: text, Icon: conditionIcon(icon, isDay), Code: code}
	}

	return Condition{Text: "Unknown", Icon: conditionIcon("116", isDay), Code: code}
}

// IsDaytime reports whether ts falls in [sunrise, sunset).
func IsDaytime(ts, sunrise, sunset time.Time) bool {
	return !ts.Before(sunrise) && ts.Before(sunset)
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// WindDirection converts degrees to a 16-point cardinal direction.
func WindDirection(degrees float64) string {
	degrees = math.Mod(math.Mod(degrees, 360)+360, 360)
	idx := int(roundHalfUp(degrees/22.5)) % 16
	return compassPoints[idx]
}
