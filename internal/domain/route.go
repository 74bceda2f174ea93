package domain

import "fmt"

// TravelMode selects the vehicle profile used by the routing backend.
type TravelMode string

const (
	ModeCar                      TravelMode = "car"
	ModePedestrian               TravelMode = "pedestrian"
	ModeBicycle                  TravelMode = "bicycle"
	ModeTruck                    TravelMode = "truck"
	ModePublicTransport          TravelMode = "publicTransport"
	ModePublicTransportTimeTable TravelMode = "publicTransportTimeTable"
)

func ParseTravelMode(s string) (TravelMode, error) {
	switch TravelMode(s) {
	case ModeCar, ModePedestrian, ModeBicycle, ModeTruck, ModePublicTransport, ModePublicTransportTimeTable:
		return TravelMode(s), nil
	}
	return "", fmt.Errorf("unknown travel mode %q", s)
}

// RoutePreference selects the optimization target of the route computation.
type RoutePreference string

const (
	PreferFastest  RoutePreference = "fastest"
	PreferShortest RoutePreference = "shortest"
)

func ParseRoutePreference(s string) (RoutePreference, error) {
	switch RoutePreference(s) {
	case PreferFastest, PreferShortest:
		return RoutePreference(s), nil
	}
	return "", fmt.Errorf("unknown route preference %q", s)
}

// UnitSystem selects the display unit system for distances.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

func ParseUnitSystem(s string) (UnitSystem, error) {
	switch UnitSystem(s) {
	case UnitsMetric, UnitsImperial:
		return UnitSystem(s), nil
	}
	return "", fmt.Errorf("unknown unit system %q", s)
}

// RouteResult is a single computed route between two resolved locations.
// Distance and durations stay in backend-native units (meters, seconds)
// until normalized for display. Immutable once constructed; discarded
// after the cycle that produced it publishes.
type RouteResult struct {
	DistanceMeters  int
	DurationSeconds int

	// TrafficSeconds is the duration under current traffic conditions.
	// Only meaningful when HasTraffic is set.
	TrafficSeconds int
	HasTraffic     bool

	Origin      ResolvedLocation
	Destination ResolvedLocation

	// Road names the backend matched at the endpoints, when reported.
	OriginName      string
	DestinationName string

	// RouteText is a short description of the roads taken.
	RouteText string

	// Attribution credits the map data suppliers, when reported.
	Attribution string
}
