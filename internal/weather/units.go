package weather

import "math"

// Unit conversions used throughout normalization. Temperatures and speeds are
// rounded to whole units, pressure and distance to two decimals, all with
// round-half-up so that a value converted out and back lands within 1 unit of
// the original.

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// CelsiusToFahrenheit converts and rounds to a whole degree.
func CelsiusToFahrenheit(c float64) float64 {
	return roundHalfUp(c*9/5 + 32)
}

// FahrenheitToCelsius converts and rounds to a whole degree.
func FahrenheitToCelsius(f float64) float64 {
	return roundHalfUp((f - 32) * 5 / 9)
}

// MetersPerSecondToKph converts and rounds to a whole km/h.
func MetersPerSecondToKph(ms float64) float64 {
	return roundHalfUp(ms * 3.6)
}

// MetersPerSecondToMph converts and rounds to a whole mph.
func MetersPerSecondToMph(ms float64) float64 {
	return roundHalfUp(ms * 2.237)
}

// KphToMph converts an already-rounded km/h figure to whole mph.
func KphToMph(kph float64) float64 {
	return roundHalfUp(kph / 1.60934)
}

// HpaToInHg converts hectopascals to inches of mercury, two decimals.
func HpaToInHg(hpa float64) float64 {
	return round2(hpa * 0.02953)
}

// MetersToKm converts to kilometres, two decimals.
func MetersToKm(m float64) float64 {
	return round2(m / 1000)
}

// MetersToMiles converts to miles, two decimals.
func MetersToMiles(m float64) float64 {
	return round2(m / 1609.34)
}

// ClampPercent forces a percentage into [0,100]. Raw payloads occasionally
// carry values outside the range.
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
