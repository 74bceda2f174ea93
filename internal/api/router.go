package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"travel-time-service/internal/api/handlers"
	"travel-time-service/internal/sensor"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. Handlers stay unaware of concrete adapters.
func NewRouter(sched *sensor.Scheduler) http.Handler {
	mux := http.NewServeMux()

	sensorHandler := &handlers.SensorHandler{Scheduler: sched}
	healthHandler := &handlers.HealthHandler{Scheduler: sched}

	mux.HandleFunc("/health", healthHandler.Check)
	mux.HandleFunc("/sensors", sensorHandler.List)
	mux.HandleFunc("/sensors/", sensorHandler.Dispatch)
	mux.Handle("/metrics", promhttp.Handler())

	return loggingMiddleware(mux)
}
