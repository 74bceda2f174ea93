package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"travel-time-service/internal/domain"
)

var (
	UpdateCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_time_update_cycles_total",
			Help: "Total sensor update cycles by outcome",
		},
		[]string{"sensor", "result"},
	)

	UpdateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travel_time_update_duration_seconds",
			Help:    "Full update cycle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sensor"},
	)

	RouteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_time_route_requests_total",
			Help: "Routing backend requests by classified outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveUpdate records one completed update cycle.
func ObserveUpdate(sensor, result string, dur time.Duration) {
	UpdateCyclesTotal.WithLabelValues(sensor, result).Inc()
	UpdateDuration.WithLabelValues(sensor).Observe(dur.Seconds())
}

// ObserveRouteRequest classifies one backend call for the request counter.
func ObserveRouteRequest(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if re, ok := domain.AsRoutingError(err); ok {
			outcome = string(re.Kind)
		}
	}
	RouteRequestsTotal.WithLabelValues(outcome).Inc()
}
