package ports

import (
	"context"

	"travel-time-service/internal/domain"
)

// RouteRequest describes a single origin->destination route computation.
type RouteRequest struct {
	Origin       domain.ResolvedLocation
	Destination  domain.ResolvedLocation
	Mode         domain.TravelMode
	Preference   domain.RoutePreference
	TrafficAware bool
}

// Contract for computing a route via an external routing backend.
// Implementations perform exactly one request per call and return
// deterministically classified failures (domain.RoutingError); retry
// policy belongs to the caller.
type RouteProvider interface {
	Route(ctx context.Context, req RouteRequest) (domain.RouteResult, error)
}
