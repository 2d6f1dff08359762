package services

import (
	"database/sql"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"spendlens/backend/models"
)

// LoadEnvVariables seeds per-user payment-source credentials from the
// environment into the database. Variables look like
// PAYMENT_KEY_USER_<userID>=<keyID>:<keySecret>. Useful for initial setup
// and for making sure credentials are refreshed on restarts.
func LoadEnvVariables(db *sql.DB) {
	log.Info().Msg("Loading payment credentials from environment variables...")

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "PAYMENT_KEY_USER_") {
			continue
		}

		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		userID := strings.TrimPrefix(parts[0], "PAYMENT_KEY_USER_")
		creds := strings.SplitN(parts[1], ":", 2)
		if len(creds) != 2 || creds[0] == "" || creds[1] == "" {
			log.Warn().Str("user", userID).Msg("Malformed payment credential variable, expected keyId:keySecret")
			continue
		}

		// Keep the user's auto-import preference across restarts
		autoImport := false
		if existing, err := models.GetPaymentConfig(db, userID); err == nil {
			autoImport = existing.AutoImport
		}

		err := models.UpdatePaymentConfig(db, userID, models.PaymentConfigUpdateRequest{
			KeyID:      creds[0],
			KeySecret:  creds[1],
			AutoImport: autoImport,
		})
		if err != nil {
			log.Error().Err(err).Str("user", userID).Msg("Failed to store payment credentials from environment")
			continue
		}
		log.Info().Str("user", userID).Msg("Stored payment credentials from environment")
	}
}
