// Package units converts backend-native route metrics into display values.
// All functions are pure.
package units

import (
	"travel-time-service/internal/domain"
)

const (
	metersPerKilometer = 1000.0
	// International mile, exact by definition.
	metersPerMile = 1609.344

	UnitKilometers = "km"
	UnitMiles      = "mi"
)

// Normalized holds display-ready route metrics. DurationSeconds keeps the
// unrounded backend value for precision-sensitive consumers.
type Normalized struct {
	Distance     float64
	DistanceUnit string

	// DurationMinutes is rounded half-up for display.
	DurationMinutes int
	DurationSeconds int

	TrafficMinutes int
	TrafficSeconds int
	HasTraffic     bool
}

// Normalize converts a route result into the configured display system.
func Normalize(route domain.RouteResult, system domain.UnitSystem) Normalized {
	n := Normalized{
		Distance:        float64(route.DistanceMeters) / metersPerKilometer,
		DistanceUnit:    UnitKilometers,
		DurationMinutes: MinutesRoundHalfUp(route.DurationSeconds),
		DurationSeconds: route.DurationSeconds,
		HasTraffic:      route.HasTraffic,
	}

	if system == domain.UnitsImperial {
		n.Distance = float64(route.DistanceMeters) / metersPerMile
		n.DistanceUnit = UnitMiles
	}

	if route.HasTraffic {
		n.TrafficMinutes = MinutesRoundHalfUp(route.TrafficSeconds)
		n.TrafficSeconds = route.TrafficSeconds
	}

	return n
}

// MinutesRoundHalfUp converts seconds to whole minutes, rounding .5 up.
func MinutesRoundHalfUp(seconds int) int {
	return (seconds + 30) / 60
}

// KilometersToMiles converts a distance between display systems.
func KilometersToMiles(km float64) float64 {
	return km * metersPerKilometer / metersPerMile
}

// MilesToKilometers is the inverse of KilometersToMiles.
func MilesToKilometers(mi float64) float64 {
	return mi * metersPerMile / metersPerKilometer
}
