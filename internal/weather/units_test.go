package weather

import (
	"math"
	"testing"
)

func TestCelsiusFahrenheitKnownValues(t *testing.T) {
	tests := []struct {
		c, f float64
	}{
		{0, 32},
		{100, 212},
		{-40, -40},
		{37, 99},
		{16.5, 62},
	}
	for _, tt := range tests {
		if got := CelsiusToFahrenheit(tt.c); got != tt.f {
			t.Errorf("CelsiusToFahrenheit(%v) = %v, want %v", tt.c, got, tt.f)
		}
	}
}

func TestTemperatureRoundTripWithinOneDegree(t *testing.T) {
	for c := -40.0; c <= 50.0; c++ {
		back := FahrenheitToCelsius(CelsiusToFahrenheit(c))
		if math.Abs(back-c) > 1 {
			t.Fatalf("round trip drifted: %v -> %v", c, back)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 1},
		{1.5, 2},
		{2.4, 2},
		{-0.5, 0},
		{-1.5, -1},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWindConversions(t *testing.T) {
	if got := MetersPerSecondToKph(10); got != 36 {
		t.Errorf("MetersPerSecondToKph(10) = %v, want 36", got)
	}
	if got := MetersPerSecondToMph(10); got != 22 {
		t.Errorf("MetersPerSecondToMph(10) = %v, want 22", got)
	}
	if got := KphToMph(100); got != 62 {
		t.Errorf("KphToMph(100) = %v, want 62", got)
	}
}

func TestPressureAndDistance(t *testing.T) {
	if got := HpaToInHg(1013); got != 29.91 {
		t.Errorf("HpaToInHg(1013) = %v, want 29.91", got)
	}
	if got := MetersToKm(10000); got != 10 {
		t.Errorf("MetersToKm(10000) = %v, want 10", got)
	}
	if got := MetersToMiles(1609.34); got != 1 {
		t.Errorf("MetersToMiles(1609.34) = %v, want 1", got)
	}
}

func TestClampPercent(t *testing.T) {
	if got := ClampPercent(-5); got != 0 {
		t.Errorf("ClampPercent(-5) = %v, want 0", got)
	}
	if got := ClampPercent(104); got != 100 {
		t.Errorf("ClampPercent(104) = %v, want 100", got)
	}
	if got := ClampPercent(42); got != 42 {
		t.Errorf("ClampPercent(42) = %v, want 42", got)
	}
}
