package handlers

import (
	"encoding/json"
	"net/http"

	"spendlens/backend/database"
	"spendlens/backend/middleware"
	"spendlens/backend/models"
)

// GetPaymentConfig returns the user's payment-source configuration.
// Credentials themselves are never echoed back, only whether they exist.
func GetPaymentConfig(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	if userID == "" {
		http.Error(w, "Unauthorized: No user ID found", http.StatusUnauthorized)
		return
	}

	config, err := models.GetPaymentConfig(database.DB, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(config)
}

// UpdatePaymentConfig stores the user's payment-source credentials.
func UpdatePaymentConfig(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	if userID == "" {
		http.Error(w, "Unauthorized: No user ID found", http.StatusUnauthorized)
		return
	}

	var req models.PaymentConfigUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.KeyID == "" || req.KeySecret == "" {
		http.Error(w, "keyId and keySecret are required", http.StatusBadRequest)
		return
	}

	if err := models.UpdatePaymentConfig(database.DB, userID, req); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":        "Payment configuration updated",
		"hasCredentials": true,
		"autoImport":     req.AutoImport,
	})
}
