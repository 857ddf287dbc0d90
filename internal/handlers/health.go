package handlers

import (
	"net/http"
	"time"

	applog "recipebox/internal/log"
)

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// Health is a simple readiness handler suitable for infrastructure probes.
func Health(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "health check requested", "method", r.Method)
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Time:   time.Now().UTC(),
	})
}

// Ready reports whether the database answers a ping.
func (a *RecipeAPI) Ready(w http.ResponseWriter, r *http.Request) {
	if !a.available(w, r) {
		return
	}
	if err := a.recipes.Ping(r.Context()); err != nil {
		applog.Error(r.Context(), "database ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Time: time.Now().UTC()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Time: time.Now().UTC()})
}
