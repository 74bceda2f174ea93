package handlers

import (
	"errors"
	"net/http"
	"strings"

	"travel-time-service/internal/sensor"
)

// SensorHandler exposes sensor snapshots and on-demand refresh.
type SensorHandler struct {
	Scheduler *sensor.Scheduler
}

// List handles GET /sensors.
func (h *SensorHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, h.Scheduler.Snapshots())
}

// Dispatch handles GET /sensors/{name} and POST /sensors/{name}/refresh.
func (h *SensorHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/sensors/")
	name, action, _ := strings.Cut(rest, "/")
	if name == "" {
		writeError(w, r, http.StatusNotFound, "sensor name missing")
		return
	}

	switch action {
	case "":
		h.get(w, r, name)
	case "refresh":
		h.refresh(w, r, name)
	default:
		writeError(w, r, http.StatusNotFound, "unknown action")
	}
}

func (h *SensorHandler) get(w http.ResponseWriter, r *http.Request, name string) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	snap, err := h.Scheduler.Snapshot(name)
	if err != nil {
		if errors.Is(err, sensor.ErrUnknownSensor) {
			writeError(w, r, http.StatusNotFound, "unknown sensor")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "snapshot failed")
		return
	}

	writeJSON(w, r, http.StatusOK, snap)
}

func (h *SensorHandler) refresh(w http.ResponseWriter, r *http.Request, name string) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if err := h.Scheduler.Refresh(name); err != nil {
		if errors.Is(err, sensor.ErrUnknownSensor) {
			writeError(w, r, http.StatusNotFound, "unknown sensor")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "refresh failed")
		return
	}

	writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "refresh queued"})
}
