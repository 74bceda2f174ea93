package sensor

import (
	"errors"
	"fmt"
	"time"

	"travel-time-service/internal/domain"
)

const (
	DefaultName = "Travel Time"

	// DefaultUpdateInterval matches the original five-minute throttle.
	DefaultUpdateInterval = 5 * time.Minute

	minUpdateInterval = 10 * time.Second
)

// Config is the immutable per-sensor configuration, validated once at
// setup and held for the sensor's lifetime.
type Config struct {
	Name           string
	Origin         domain.LocationRef
	Destination    domain.LocationRef
	Mode           domain.TravelMode
	Preference     domain.RoutePreference
	TrafficAware   bool
	Units          domain.UnitSystem
	UpdateInterval time.Duration
}

// Validate applies defaults and rejects configurations the pipeline cannot
// serve. Called once before a sensor is constructed.
func (c *Config) Validate() error {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Mode == "" {
		c.Mode = domain.ModeCar
	}
	if c.Preference == "" {
		c.Preference = domain.PreferFastest
	}
	if c.Units == "" {
		c.Units = domain.UnitsMetric
	}
	if c.UpdateInterval == 0 {
		c.UpdateInterval = DefaultUpdateInterval
	}

	if _, err := domain.ParseTravelMode(string(c.Mode)); err != nil {
		return fmt.Errorf("sensor %q: %w", c.Name, err)
	}
	if _, err := domain.ParseRoutePreference(string(c.Preference)); err != nil {
		return fmt.Errorf("sensor %q: %w", c.Name, err)
	}
	if _, err := domain.ParseUnitSystem(string(c.Units)); err != nil {
		return fmt.Errorf("sensor %q: %w", c.Name, err)
	}
	if c.UpdateInterval < minUpdateInterval {
		return fmt.Errorf("sensor %q: update interval %s below minimum %s", c.Name, c.UpdateInterval, minUpdateInterval)
	}

	if err := validateRef(c.Origin); err != nil {
		return fmt.Errorf("sensor %q: origin: %w", c.Name, err)
	}
	if err := validateRef(c.Destination); err != nil {
		return fmt.Errorf("sensor %q: destination: %w", c.Name, err)
	}

	return nil
}

func validateRef(ref domain.LocationRef) error {
	switch ref.Kind {
	case domain.RefCoordinates:
		_, err := domain.NewCoordinates(ref.Coords.Lat, ref.Coords.Lon)
		return err
	case domain.RefEntity:
		if ref.EntityID == "" {
			return errors.New("entity id must not be empty")
		}
		return nil
	}
	return fmt.Errorf("unknown reference kind %d", ref.Kind)
}
