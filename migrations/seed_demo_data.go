package migrations

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// SeedDemoData seeds demo users for development and PR environments.
// This should never run in production.
func SeedDemoData(db *sql.DB) error {
	if os.Getenv("APP_ENV") == "production" || os.Getenv("ENVIRONMENT") == "production" {
		log.Info().Msg("Refusing to seed demo data in production environment")
		return nil
	}

	if os.Getenv("RESET_DB") != "true" &&
		os.Getenv("APP_ENV") != "development" &&
		os.Getenv("PR_DEPLOYMENT") != "true" {
		log.Info().Msg("Skipping demo data seeding - not in dev/PR environment")
		return nil
	}

	log.Info().Msg("Seeding demo users for development/PR environment...")

	demoUsers := []struct {
		id       string
		username string
		name     string
		email    string
	}{
		{id: "demo-user-1", username: "asha", name: "Asha", email: "asha@example.com"},
		{id: "demo-user-2", username: "rohan", name: "Rohan", email: "rohan@example.com"},
	}

	for _, user := range demoUsers {
		_, err := db.Exec(
			`INSERT OR IGNORE INTO users (id, username, name, email) VALUES (?, ?, ?, ?)`,
			user.id, user.username, user.name, user.email,
		)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", user.username, err)
		}
	}

	return nil
}
