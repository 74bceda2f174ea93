package units

import (
	"math"
	"testing"

	"travel-time-service/internal/domain"
)

func TestNormalizeMetric(t *testing.T) {
	route := domain.RouteResult{DistanceMeters: 7743, DurationSeconds: 945}

	n := Normalize(route, domain.UnitsMetric)

	if n.Distance != 7.743 {
		t.Fatalf("distance = %v, want 7.743", n.Distance)
	}
	if n.DistanceUnit != UnitKilometers {
		t.Fatalf("unit = %q, want %q", n.DistanceUnit, UnitKilometers)
	}
	if n.DurationMinutes != 16 {
		t.Fatalf("minutes = %d, want 16", n.DurationMinutes)
	}
	if n.DurationSeconds != 945 {
		t.Fatalf("seconds = %d, want 945", n.DurationSeconds)
	}
}

func TestNormalizeImperial(t *testing.T) {
	route := domain.RouteResult{DistanceMeters: 1609, DurationSeconds: 60}

	n := Normalize(route, domain.UnitsImperial)

	if n.DistanceUnit != UnitMiles {
		t.Fatalf("unit = %q, want %q", n.DistanceUnit, UnitMiles)
	}
	if math.Abs(n.Distance-0.99979) > 0.0001 {
		t.Fatalf("distance = %v, want ~0.99979", n.Distance)
	}
}

func TestNormalizeTraffic(t *testing.T) {
	route := domain.RouteResult{
		DistanceMeters:  5000,
		DurationSeconds: 600,
		TrafficSeconds:  755,
		HasTraffic:      true,
	}

	n := Normalize(route, domain.UnitsMetric)

	if !n.HasTraffic {
		t.Fatal("expected HasTraffic")
	}
	if n.TrafficMinutes != 13 {
		t.Fatalf("traffic minutes = %d, want 13", n.TrafficMinutes)
	}
	if n.TrafficSeconds != 755 {
		t.Fatalf("traffic seconds = %d, want 755", n.TrafficSeconds)
	}
}

func TestMinutesRoundHalfUp(t *testing.T) {
	cases := []struct {
		seconds int
		want    int
	}{
		{0, 0},
		{29, 0},
		{30, 1},
		{89, 1},
		{90, 2},
		{149, 2},
		{150, 3},
		{945, 16},
	}

	for _, tc := range cases {
		if got := MinutesRoundHalfUp(tc.seconds); got != tc.want {
			t.Errorf("MinutesRoundHalfUp(%d) = %d, want %d", tc.seconds, got, tc.want)
		}
	}
}

// Normalization is pure: the same inputs always produce the same output.
func TestNormalizeIdempotent(t *testing.T) {
	route := domain.RouteResult{DistanceMeters: 12345, DurationSeconds: 678, TrafficSeconds: 700, HasTraffic: true}

	first := Normalize(route, domain.UnitsImperial)
	second := Normalize(route, domain.UnitsImperial)

	if first != second {
		t.Fatalf("normalization not stable: %+v vs %+v", first, second)
	}
}

func TestDistanceConversionRoundTrip(t *testing.T) {
	for _, km := range []float64{0.001, 1, 7.743, 42.195, 1000} {
		back := MilesToKilometers(KilometersToMiles(km))
		if math.Abs(back-km) > 1e-9 {
			t.Errorf("round trip %v km -> %v km exceeds tolerance", km, back)
		}
	}
}
