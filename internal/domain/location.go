package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Immutable geographic coordinates in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// NewCoordinates validates latitude/longitude ranges before constructing a pair.
func NewCoordinates(lat, lon float64) (Coordinates, error) {
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("latitude %v out of range [-90,90]", lat)
	}
	if lon < -180 || lon > 180 {
		return Coordinates{}, fmt.Errorf("longitude %v out of range [-180,180]", lon)
	}
	return Coordinates{Lat: lat, Lon: lon}, nil
}

// String renders the pair as "lat,lon", the form the routing backend expects.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// ParseCoordinates parses a "lat,lon" string. Entity states sometimes carry
// a location in this literal form.
func ParseCoordinates(s string) (Coordinates, bool) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Coordinates{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, false
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, false
	}

	c, err := NewCoordinates(lat, lon)
	if err != nil {
		return Coordinates{}, false
	}

	return c, true
}

// RefKind tags the variant held by a LocationRef.
type RefKind int

const (
	RefCoordinates RefKind = iota
	RefEntity
)

// LocationRef is a tagged reference to a location: either a fixed coordinate
// pair or an indirect reference to a tracked entity's current state.
type LocationRef struct {
	Kind     RefKind
	Coords   Coordinates
	EntityID string
}

func CoordinateRef(c Coordinates) LocationRef {
	return LocationRef{Kind: RefCoordinates, Coords: c}
}

func EntityRef(id string) LocationRef {
	return LocationRef{Kind: RefEntity, EntityID: id}
}

func (r LocationRef) String() string {
	if r.Kind == RefEntity {
		return r.EntityID
	}
	return r.Coords.String()
}

// ResolvedLocation is a concrete coordinate pair plus the reference it was
// derived from, kept for diagnostics. Produced fresh each resolution cycle;
// never cached, because the referenced entity may have moved.
type ResolvedLocation struct {
	Coords Coordinates
	Source string
}
