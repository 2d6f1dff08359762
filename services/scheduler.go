package services

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"spendlens/backend/models"
)

// StartScheduler starts the background task scheduler.
func StartScheduler(db *sql.DB, importer *Importer) {
	log.Info().Msg("Starting task scheduler...")

	go startAutoImportScheduler(db, importer)
}

// startAutoImportScheduler imports the previous day's payments every
// midnight for users who opted into automatic imports.
func startAutoImportScheduler(db *sql.DB, importer *Importer) {
	for {
		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
		untilMidnight := midnight.Sub(now)

		log.Info().Dur("in", untilMidnight).Msg("Next auto-import scheduled")
		time.Sleep(untilMidnight)

		runAutoImports(db, importer)

		// Small delay so a fast run doesn't trigger twice in one minute
		time.Sleep(time.Second)
	}
}

func runAutoImports(db *sql.DB, importer *Importer) {
	userIDs, err := models.ListAutoImportUsers(db)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list auto-import users")
		return
	}

	to := time.Now()
	from := to.Add(-24 * time.Hour)

	for _, userID := range userIDs {
		count, err := importer.ImportTransactions(userID, from.Unix(), to.Unix())
		if err != nil {
			log.Error().Err(err).Str("user", userID).Msg("Scheduled import failed")
			continue
		}
		if err := models.UpdateLastImportTime(db, userID); err != nil {
			log.Error().Err(err).Str("user", userID).Msg("Failed to record import time")
		}
		log.Info().Str("user", userID).Int("created", count).Msg("Scheduled import completed")
	}
}
