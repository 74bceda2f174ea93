package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"travel-time-service/internal/domain"
	"travel-time-service/internal/ports"
	"travel-time-service/internal/sensor"
)

const (
	// EnvConfigPath overrides the sensor definition file location.
	EnvConfigPath = "SENSORS_CONFIG_PATH"

	DefaultConfigPath = "config/sensors.yaml"
)

var (
	// ErrConfigNotFound is returned when the sensor file does not exist.
	ErrConfigNotFound = errors.New("sensor config file not found")
	// ErrInvalidConfig is returned when the sensor file is malformed.
	ErrInvalidConfig = errors.New("sensor config file is invalid")
)

// File is the operator-edited sensor definition document.
type File struct {
	Zones   []ZoneDef   `yaml:"zones"`
	Sensors []SensorDef `yaml:"sensors"`
}

// ZoneDef declares a static zone available to entity resolution when no
// recorder database is configured.
type ZoneDef struct {
	EntityID  string  `yaml:"entity_id"`
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// EndpointDef is a loosely-typed location: either a coordinate pair or an
// entity reference, never both.
type EndpointDef struct {
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
	EntityID  string   `yaml:"entity_id"`
}

type SensorDef struct {
	Name            string      `yaml:"name"`
	Origin          EndpointDef `yaml:"origin"`
	Destination     EndpointDef `yaml:"destination"`
	Mode            string      `yaml:"mode"`
	RoutePreference string      `yaml:"route_preference"`
	TrafficAware    bool        `yaml:"traffic_aware"`
	UnitSystem      string      `yaml:"unit_system"`
	UpdateInterval  string      `yaml:"update_interval"`
}

// Path resolves the sensor file location from the environment.
func Path() string {
	return Get(EnvConfigPath, DefaultConfigPath)
}

// Load reads and decodes the sensor definition file.
func Load(path string) (File, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return File{}, fmt.Errorf("read sensor config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(payload, &f); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(f.Sensors) == 0 {
		return File{}, fmt.Errorf("%w: no sensors defined", ErrInvalidConfig)
	}

	return f, nil
}

// SensorConfigs builds validated sensor configurations, enforcing the
// coordinate/entity mutual exclusivity per endpoint and unique names.
func (f File) SensorConfigs() ([]sensor.Config, error) {
	seen := make(map[string]struct{}, len(f.Sensors))
	out := make([]sensor.Config, 0, len(f.Sensors))

	for i, def := range f.Sensors {
		origin, err := def.Origin.toRef()
		if err != nil {
			return nil, fmt.Errorf("%w: sensor %d (%s): origin: %v", ErrInvalidConfig, i, def.Name, err)
		}

		destination, err := def.Destination.toRef()
		if err != nil {
			return nil, fmt.Errorf("%w: sensor %d (%s): destination: %v", ErrInvalidConfig, i, def.Name, err)
		}

		interval := time.Duration(0)
		if def.UpdateInterval != "" {
			interval, err = time.ParseDuration(def.UpdateInterval)
			if err != nil {
				return nil, fmt.Errorf("%w: sensor %d (%s): update_interval: %v", ErrInvalidConfig, i, def.Name, err)
			}
		}

		cfg := sensor.Config{
			Name:           def.Name,
			Origin:         origin,
			Destination:    destination,
			Mode:           domain.TravelMode(def.Mode),
			Preference:     domain.RoutePreference(def.RoutePreference),
			TrafficAware:   def.TrafficAware,
			Units:          domain.UnitSystem(def.UnitSystem),
			UpdateInterval: interval,
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}

		if _, dup := seen[cfg.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate sensor name %q", ErrInvalidConfig, cfg.Name)
		}
		seen[cfg.Name] = struct{}{}

		out = append(out, cfg)
	}

	return out, nil
}

// ZoneStates converts static zone definitions into entity state snapshots
// for the in-memory lookup.
func (f File) ZoneStates() ([]ports.EntityState, error) {
	out := make([]ports.EntityState, 0, len(f.Zones))
	for i, z := range f.Zones {
		if z.EntityID == "" {
			return nil, fmt.Errorf("%w: zone %d: entity_id is required", ErrInvalidConfig, i)
		}
		if _, err := domain.NewCoordinates(z.Latitude, z.Longitude); err != nil {
			return nil, fmt.Errorf("%w: zone %q: %v", ErrInvalidConfig, z.EntityID, err)
		}

		out = append(out, ports.EntityState{
			EntityID: z.EntityID,
			State:    "zoning",
			Attributes: map[string]any{
				"latitude":      z.Latitude,
				"longitude":     z.Longitude,
				"friendly_name": z.Name,
			},
		})
	}
	return out, nil
}

func (e EndpointDef) toRef() (domain.LocationRef, error) {
	hasCoords := e.Latitude != nil || e.Longitude != nil

	if e.EntityID != "" && hasCoords {
		return domain.LocationRef{}, errors.New("coordinates and entity_id are mutually exclusive")
	}

	if e.EntityID != "" {
		return domain.EntityRef(e.EntityID), nil
	}

	if e.Latitude == nil || e.Longitude == nil {
		return domain.LocationRef{}, errors.New("requires either entity_id or both latitude and longitude")
	}

	coords, err := domain.NewCoordinates(*e.Latitude, *e.Longitude)
	if err != nil {
		return domain.LocationRef{}, err
	}
	return domain.CoordinateRef(coords), nil
}
