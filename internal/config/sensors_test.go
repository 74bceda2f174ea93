package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"travel-time-service/internal/domain"
)

const sampleConfig = `
zones:
  - entity_id: zone.home
    name: Home
    latitude: 51.222975
    longitude: 9.267577

sensors:
  - name: commute
    origin:
      latitude: 51.222975
      longitude: 9.267577
    destination:
      entity_id: device_tracker.phone
    mode: car
    route_preference: fastest
    traffic_aware: true
    unit_system: metric
    update_interval: 120s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sensors.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestLoadAndBuildSensorConfigs(t *testing.T) {
	file, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfgs, err := file.SensorConfigs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfgs) != 1 {
		t.Fatalf("got %d configs, want 1", len(cfgs))
	}

	cfg := cfgs[0]
	if cfg.Name != "commute" {
		t.Errorf("name = %q, want commute", cfg.Name)
	}
	if cfg.Origin.Kind != domain.RefCoordinates {
		t.Errorf("origin kind = %d, want coordinates", cfg.Origin.Kind)
	}
	if cfg.Destination.Kind != domain.RefEntity || cfg.Destination.EntityID != "device_tracker.phone" {
		t.Errorf("destination = %+v, want entity device_tracker.phone", cfg.Destination)
	}
	if !cfg.TrafficAware {
		t.Error("traffic_aware not set")
	}
	if cfg.UpdateInterval != 120*time.Second {
		t.Errorf("interval = %s, want 2m0s", cfg.UpdateInterval)
	}

	zones, err := file.ZoneStates()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zones) != 1 || zones[0].EntityID != "zone.home" {
		t.Fatalf("zones = %+v, want zone.home", zones)
	}
	if zones[0].Attributes["friendly_name"] != "Home" {
		t.Fatalf("friendly_name = %v, want Home", zones[0].Attributes["friendly_name"])
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestSensorConfigsRejectsInvalidDefinitions(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{
			"coordinates and entity are mutually exclusive",
			`
sensors:
  - name: bad
    origin:
      latitude: 51.0
      longitude: 9.0
      entity_id: zone.home
    destination:
      entity_id: zone.office
`,
		},
		{
			"endpoint missing entirely",
			`
sensors:
  - name: bad
    origin: {}
    destination:
      entity_id: zone.office
`,
		},
		{
			"latitude without longitude",
			`
sensors:
  - name: bad
    origin:
      latitude: 51.0
    destination:
      entity_id: zone.office
`,
		},
		{
			"duplicate names",
			`
sensors:
  - name: twin
    origin:
      entity_id: zone.home
    destination:
      entity_id: zone.office
  - name: twin
    origin:
      entity_id: zone.home
    destination:
      entity_id: zone.office
`,
		},
		{
			"unparsable interval",
			`
sensors:
  - name: bad
    origin:
      entity_id: zone.home
    destination:
      entity_id: zone.office
    update_interval: five minutes
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			file, err := Load(writeConfig(t, tc.body))
			if err != nil {
				t.Fatalf("unexpected load error: %v", err)
			}

			if _, err := file.SensorConfigs(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
