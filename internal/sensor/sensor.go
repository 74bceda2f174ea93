// Package sensor orchestrates one update cycle per trigger: resolve both
// endpoints, call the routing backend, normalize units, publish state.
package sensor

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"travel-time-service/internal/domain"
	"travel-time-service/internal/platform/obs"
	"travel-time-service/internal/ports"
	"travel-time-service/internal/resolve"
	"travel-time-service/internal/units"
)

const (
	// StateUnknown is published before the first successful cycle.
	StateUnknown = "unknown"
	// StateUnavailable marks failures that invalidate prior measurements.
	StateUnavailable = "unavailable"

	unitOfMeasurement = "min"
)

// Attributes is the published attribute set of a sensor.
type Attributes struct {
	Distance     float64 `json:"distance,omitempty"`
	DistanceUnit string  `json:"distance_unit,omitempty"`

	// Duration is the unrounded travel time in minutes.
	Duration          float64 `json:"duration,omitempty"`
	DurationInTraffic float64 `json:"duration_in_traffic,omitempty"`

	TrafficAware bool   `json:"traffic_aware"`
	Mode         string `json:"mode"`

	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`

	// Road names matched at the endpoints, when the backend reports them.
	OriginName      string `json:"origin_name,omitempty"`
	DestinationName string `json:"destination_name,omitempty"`

	// Route is a short description of the roads taken.
	Route       string `json:"route,omitempty"`
	Attribution string `json:"attribution,omitempty"`

	LastSuccess *time.Time `json:"last_success,omitempty"`
	FailureKind string     `json:"failure_kind,omitempty"`
}

// Snapshot is the externally visible state of a sensor. Replaced atomically
// at the end of each cycle.
type Snapshot struct {
	Name              string     `json:"name"`
	State             string     `json:"state"`
	UnitOfMeasurement string     `json:"unit_of_measurement"`
	Attributes        Attributes `json:"attributes"`
}

// Sensor owns the only mutable state of the pipeline: the last published
// snapshot. At most one update cycle runs at a time; a trigger arriving
// mid-cycle queues behind the running one.
type Sensor struct {
	cfg      Config
	lookup   ports.EntityStateLookup
	provider ports.RouteProvider

	cycleMu sync.Mutex

	stateMu sync.RWMutex
	snap    Snapshot

	now func() time.Time
}

func New(cfg Config, lookup ports.EntityStateLookup, provider ports.RouteProvider) *Sensor {
	return &Sensor{
		cfg:      cfg,
		lookup:   lookup,
		provider: provider,
		snap: Snapshot{
			Name:              cfg.Name,
			State:             StateUnknown,
			UnitOfMeasurement: unitOfMeasurement,
			Attributes: Attributes{
				TrafficAware: cfg.TrafficAware,
				Mode:         string(cfg.Mode),
			},
		},
		now: time.Now,
	}
}

func (s *Sensor) Name() string { return s.cfg.Name }

func (s *Sensor) Interval() time.Duration { return s.cfg.UpdateInterval }

// Snapshot returns the current published state.
func (s *Sensor) Snapshot() Snapshot {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.snap
}

// Update runs one full cycle. Every failure is classified and published;
// nothing propagates to the scheduler as an uncaught fault. The returned
// error is informational (logging, metrics).
func (s *Sensor) Update(ctx context.Context) (err error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	ctx = obs.WithSensor(ctx, s.cfg.Name)

	start := s.now()
	result := "ok"
	defer func() {
		obs.ObserveUpdate(s.cfg.Name, result, time.Since(start))
	}()
	defer obs.Time(ctx, "sensor.update")(&err)

	// Endpoints resolve independently so both diagnostics are available.
	origin, originErr := resolve.Resolve(ctx, s.cfg.Origin, s.lookup)
	destination, destErr := resolve.Resolve(ctx, s.cfg.Destination, s.lookup)

	if originErr != nil || destErr != nil {
		if ctx.Err() != nil {
			result = "canceled"
			return ctx.Err()
		}

		label := resolutionFailureLabel(originErr, destErr)
		result = label
		s.publishUnavailable(label)
		return errors.Join(originErr, destErr)
	}

	route, routeErr := s.provider.Route(ctx, ports.RouteRequest{
		Origin:       origin,
		Destination:  destination,
		Mode:         s.cfg.Mode,
		Preference:   s.cfg.Preference,
		TrafficAware: s.cfg.TrafficAware,
	})
	if routeErr != nil {
		// An abandoned cycle publishes nothing.
		if ctx.Err() != nil {
			result = "canceled"
			return routeErr
		}

		kind := domain.RoutingTransportFailure
		if re, ok := domain.AsRoutingError(routeErr); ok {
			kind = re.Kind
		}
		result = string(kind)

		if kind == domain.RoutingNoRouteFound {
			// A computed "no path" answer invalidates prior measurements.
			s.publishUnavailable(string(kind))
		} else {
			// Transient and credential failures keep the last good value;
			// the next scheduled cycle retries.
			s.markFailure(string(kind))
		}
		return routeErr
	}

	s.publishSuccess(route, units.Normalize(route, s.cfg.Units))
	return nil
}

func (s *Sensor) publishSuccess(route domain.RouteResult, n units.Normalized) {
	now := s.now().UTC()

	attrs := Attributes{
		Distance:        n.Distance,
		DistanceUnit:    n.DistanceUnit,
		Duration:        float64(n.DurationSeconds) / 60,
		TrafficAware:    s.cfg.TrafficAware,
		Mode:            string(s.cfg.Mode),
		Origin:          route.Origin.Coords.String(),
		Destination:     route.Destination.Coords.String(),
		OriginName:      route.OriginName,
		DestinationName: route.DestinationName,
		Route:           route.RouteText,
		Attribution:     route.Attribution,
		LastSuccess:     &now,
	}

	state := n.DurationMinutes
	if n.HasTraffic && n.TrafficSeconds > 0 {
		attrs.DurationInTraffic = float64(n.TrafficSeconds) / 60
		state = n.TrafficMinutes
	}

	s.swap(Snapshot{
		Name:              s.cfg.Name,
		State:             strconv.Itoa(state),
		UnitOfMeasurement: unitOfMeasurement,
		Attributes:        attrs,
	})
}

// publishUnavailable discards prior measurements and records the failure.
func (s *Sensor) publishUnavailable(kind string) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	s.snap = Snapshot{
		Name:              s.cfg.Name,
		State:             StateUnavailable,
		UnitOfMeasurement: unitOfMeasurement,
		Attributes: Attributes{
			TrafficAware: s.cfg.TrafficAware,
			Mode:         string(s.cfg.Mode),
			LastSuccess:  s.snap.Attributes.LastSuccess,
			FailureKind:  kind,
		},
	}
}

// markFailure keeps the previously published measurement in place and only
// annotates the failure kind.
func (s *Sensor) markFailure(kind string) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	snap := s.snap
	snap.Attributes.FailureKind = kind
	s.snap = snap
}

func (s *Sensor) swap(snap Snapshot) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.snap = snap
}

func resolutionFailureLabel(originErr, destErr error) string {
	parts := make([]string, 0, 2)
	if originErr != nil {
		parts = append(parts, "origin: "+resolutionKind(originErr))
	}
	if destErr != nil {
		parts = append(parts, "destination: "+resolutionKind(destErr))
	}
	return strings.Join(parts, "; ")
}

func resolutionKind(err error) string {
	if re, ok := domain.AsResolutionError(err); ok {
		return string(re.Kind)
	}
	return "resolution_failure"
}
