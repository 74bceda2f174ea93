package handlers

import (
	"net/http"

	"travel-time-service/internal/sensor"
)

// HealthHandler reports readiness in terms of the sensor fleet: how many
// sensors the scheduler drives and how many currently publish no usable
// measurement.
type HealthHandler struct {
	Scheduler *sensor.Scheduler
}

type healthResponse struct {
	Status      string `json:"status"`
	Sensors     int    `json:"sensors"`
	Unavailable int    `json:"unavailable"`
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	snaps := h.Scheduler.Snapshots()
	unavailable := 0
	for _, snap := range snaps {
		if snap.State == sensor.StateUnavailable {
			unavailable++
		}
	}

	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:      "ok",
		Sensors:     len(snaps),
		Unavailable: unavailable,
	})
}
