package handlers

import (
	"encoding/json"
	"net/http"

	"spendlens/backend/database"
)

// HealthCheck reports service and database health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK

	if database.DB == nil || database.DB.Ping() != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
