package geo

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestDistanceKm_KnownCities(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected float64
		delta    float64
	}{
		{"new york to los angeles", Point{40.7128, -74.0060}, Point{34.0522, -118.2437}, 3936, 1},
		{"london to paris", Point{51.5074, -0.1278}, Point{48.8566, 2.3522}, 343.56, 0.01},
		{"one degree of latitude", Point{0, 0}, Point{1, 0}, 111.195, 0.001},
		{"half the equator", Point{0, 0}, Point{0, 180}, math.Pi * EarthRadiusKm, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("expected %.3f km (±%v), got %.3f", tt.expected, tt.delta, got)
			}
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	points := []Point{
		{40.7128, -74.0060},
		{34.0522, -118.2437},
		{-33.8688, 151.2093},
		{90, 0},
		{-90, 180},
		{0, -180},
		{5.6037, -0.1870},
	}

	for _, a := range points {
		for _, b := range points {
			ab := Distance(a, b)
			ba := Distance(b, a)
			if math.Abs(ab-ba) > epsilon {
				t.Errorf("distance(%v,%v)=%v but distance(%v,%v)=%v", a, b, ab, b, a, ba)
			}
			if ab < 0 || math.IsNaN(ab) {
				t.Errorf("distance(%v,%v) = %v, want non-negative number", a, b, ab)
			}
		}
	}
}

func TestDistanceKm_Reflexive(t *testing.T) {
	for _, p := range []Point{{0, 0}, {40.7128, -74.0060}, {-89.9, 179.9}, {90, -180}} {
		if d := Distance(p, p); d != 0 {
			t.Errorf("distance(%v,%v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceKm_AntipodalIsFinite(t *testing.T) {
	d := DistanceKm(45, 30, -45, -150)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		t.Fatalf("expected finite distance for antipodal points, got %v", d)
	}
	if math.Abs(d-math.Pi*EarthRadiusKm) > 1e-3 {
		t.Errorf("expected half circumference, got %v", d)
	}
}

func TestPoint_Valid(t *testing.T) {
	tests := []struct {
		p     Point
		valid bool
	}{
		{Point{0, 0}, true},
		{Point{90, 180}, true},
		{Point{-90, -180}, true},
		{Point{90.0001, 0}, false},
		{Point{0, -180.5}, false},
		{Point{math.NaN(), 0}, false},
	}

	for _, tt := range tests {
		if got := tt.p.Valid(); got != tt.valid {
			t.Errorf("Point%v.Valid() = %v, want %v", tt.p, got, tt.valid)
		}
	}
}
