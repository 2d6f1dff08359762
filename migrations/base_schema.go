package migrations

import (
	"database/sql"
	"fmt"
)

// CreateBaseSchema creates all tables the application needs. The
// UNIQUE(user_id, payment_id) constraint is what makes re-importing the
// same payment a no-op even when two imports race on the existence check.
func CreateBaseSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			email TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			payment_id TEXT NOT NULL,
			amount REAL NOT NULL,
			currency TEXT,
			method TEXT,
			status TEXT,
			description TEXT,
			created_at DATETIME NOT NULL,
			merchant_name TEXT,
			merchant_details TEXT,
			category TEXT NOT NULL DEFAULT 'Other',
			lat REAL,
			lng REAL,
			is_recurring BOOLEAN NOT NULL DEFAULT 0,
			anomaly BOOLEAN NOT NULL DEFAULT 0,
			UNIQUE(user_id, payment_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_created
			ON transactions(user_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_recurrence
			ON transactions(user_id, merchant_name, amount);`,
		`CREATE TABLE IF NOT EXISTS budgets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			category TEXT NOT NULL,
			amount REAL NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, category)
		);`,
		`CREATE TABLE IF NOT EXISTS payment_configs (
			user_id TEXT PRIMARY KEY,
			encrypted_key_id TEXT,
			encrypted_key_secret TEXT,
			auto_import BOOLEAN NOT NULL DEFAULT 0,
			last_import_time DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}
