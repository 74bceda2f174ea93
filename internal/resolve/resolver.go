// Package resolve turns loosely-typed location references into concrete
// coordinate pairs by walking the host's entity states.
package resolve

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"travel-time-service/internal/domain"
	"travel-time-service/internal/ports"
)

// MaxDepth bounds a single resolution chain. Chains deeper than this fail
// with depth_exceeded even when no cycle is detected.
const MaxDepth = 8

// Entity domains whose states may carry or point at a location.
var trackableDomains = map[string]struct{}{
	"device_tracker": {},
	"sensor":         {},
	"zone":           {},
	"person":         {},
}

// Resolve follows ref until it yields a coordinate pair. Entity references
// may chain (an entity's state naming another entity), resolve through a
// zone (by id or friendly label), or carry a literal "lat,lon" state.
// Resolution is in-memory and never blocks on I/O beyond the lookup itself.
func Resolve(ctx context.Context, ref domain.LocationRef, lookup ports.EntityStateLookup) (domain.ResolvedLocation, error) {
	if ref.Kind == domain.RefCoordinates {
		return domain.ResolvedLocation{Coords: ref.Coords, Source: ref.String()}, nil
	}

	id := ref.EntityID
	visited := make(map[string]struct{}, MaxDepth)
	chain := make([]string, 0, MaxDepth)

	for depth := 0; ; depth++ {
		if depth >= MaxDepth {
			return domain.ResolvedLocation{}, &domain.ResolutionError{
				Kind:  domain.ResolutionDepthExceeded,
				Ref:   ref.EntityID,
				Chain: chain,
			}
		}

		if _, seen := visited[id]; seen {
			return domain.ResolvedLocation{}, &domain.ResolutionError{
				Kind:  domain.ResolutionCyclic,
				Ref:   ref.EntityID,
				Chain: append(chain, id),
			}
		}
		visited[id] = struct{}{}
		chain = append(chain, id)

		state, err := lookup.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ports.ErrEntityNotFound) {
				return domain.ResolvedLocation{}, &domain.ResolutionError{
					Kind:  domain.ResolutionEntityNotFound,
					Ref:   id,
					Chain: chain,
				}
			}
			return domain.ResolvedLocation{}, err
		}

		if coords, ok := attributeCoordinates(state); ok {
			return domain.ResolvedLocation{Coords: coords, Source: ref.EntityID}, nil
		}

		value := strings.TrimSpace(state.State)
		if value == "" {
			return domain.ResolvedLocation{}, &domain.ResolutionError{
				Kind:  domain.ResolutionUnresolvable,
				Ref:   ref.EntityID,
				Chain: chain,
			}
		}

		// The state may name a zone by its id suffix ("home" -> zone.home).
		if zone, err := lookup.Get(ctx, "zone."+value); err == nil {
			if coords, ok := attributeCoordinates(zone); ok {
				return domain.ResolvedLocation{Coords: coords, Source: ref.EntityID}, nil
			}
		}

		// Or by its human-readable label.
		zone, err := lookup.ZoneByLabel(ctx, value)
		switch {
		case err == nil:
			if coords, ok := attributeCoordinates(zone); ok {
				return domain.ResolvedLocation{Coords: coords, Source: ref.EntityID}, nil
			}
		case errors.Is(err, ports.ErrAmbiguousZone):
			return domain.ResolvedLocation{}, &domain.ResolutionError{
				Kind:  domain.ResolutionUnresolvable,
				Ref:   id,
				Chain: chain,
			}
		case !errors.Is(err, ports.ErrEntityNotFound):
			return domain.ResolvedLocation{}, err
		}

		// Some sensors expose the location itself as a "lat,lon" state.
		if coords, ok := domain.ParseCoordinates(value); ok {
			return domain.ResolvedLocation{Coords: coords, Source: ref.EntityID}, nil
		}

		// Chained reference: the state is itself a trackable entity id.
		if isTrackableEntityID(value) {
			id = value
			continue
		}

		return domain.ResolvedLocation{}, &domain.ResolutionError{
			Kind:  domain.ResolutionUnresolvable,
			Ref:   ref.EntityID,
			Chain: chain,
		}
	}
}

// attributeCoordinates reads latitude/longitude attributes when the entity
// exposes its location directly (trackers, zones, persons).
func attributeCoordinates(state ports.EntityState) (domain.Coordinates, bool) {
	lat, ok := numericAttribute(state.Attributes, "latitude")
	if !ok {
		return domain.Coordinates{}, false
	}

	lon, ok := numericAttribute(state.Attributes, "longitude")
	if !ok {
		return domain.Coordinates{}, false
	}

	coords, err := domain.NewCoordinates(lat, lon)
	if err != nil {
		return domain.Coordinates{}, false
	}

	return coords, true
}

// numericAttribute tolerates the attribute encodings seen in practice:
// float64 from JSON, int from in-memory fixtures, numeric strings.
func numericAttribute(attrs map[string]any, key string) (float64, bool) {
	v, ok := attrs[key]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}

	return 0, false
}

func isTrackableEntityID(s string) bool {
	dom, rest, ok := strings.Cut(s, ".")
	if !ok || rest == "" || strings.ContainsAny(rest, " .") {
		return false
	}

	_, ok = trackableDomains[dom]
	return ok
}
