package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ResolutionKind classifies why a location reference could not be resolved.
type ResolutionKind string

const (
	ResolutionUnresolvable   ResolutionKind = "unresolvable"
	ResolutionCyclic         ResolutionKind = "cyclic_reference"
	ResolutionDepthExceeded  ResolutionKind = "depth_exceeded"
	ResolutionEntityNotFound ResolutionKind = "entity_not_found"
)

// ResolutionError reports a failed location resolution. Chain holds the
// entity ids visited before the failure, in order.
type ResolutionError struct {
	Kind  ResolutionKind
	Ref   string
	Chain []string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("resolve %q: %s", e.Ref, e.Kind)
	if len(e.Chain) > 0 {
		msg += " (chain: " + strings.Join(e.Chain, " -> ") + ")"
	}
	return msg
}

// AsResolutionError unwraps err to a ResolutionError if one is present.
func AsResolutionError(err error) (*ResolutionError, bool) {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// RoutingKind classifies a routing backend failure.
type RoutingKind string

const (
	RoutingAuthRejected      RoutingKind = "auth_rejected"
	RoutingQuotaExceeded     RoutingKind = "quota_exceeded"
	RoutingNoRouteFound      RoutingKind = "no_route_found"
	RoutingMalformedResponse RoutingKind = "malformed_response"
	RoutingTransportFailure  RoutingKind = "transport_failure"
)

// RoutingError carries the classified outcome of a failed backend call.
// NoRouteFound is an ordinary computed answer (no path exists) represented
// as data so callers can publish a dedicated state for it.
type RoutingError struct {
	Kind       RoutingKind
	StatusCode int
	Detail     string
	Cause      error
}

func (e *RoutingError) Error() string {
	parts := []string{fmt.Sprintf("routing: %s", e.Kind)}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if e.Detail != "" {
		parts = append(parts, fmt.Sprintf("detail=%q", e.Detail))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}
	return strings.Join(parts, "; ")
}

func (e *RoutingError) Unwrap() error { return e.Cause }

// AsRoutingError unwraps err to a RoutingError if one is present.
func AsRoutingError(err error) (*RoutingError, bool) {
	var re *RoutingError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
