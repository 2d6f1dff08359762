package models

import (
	"database/sql"
	"fmt"
	"time"
)

// Budget is a per-user, per-category spending limit. Budgets are stored in
// the database so they survive restarts and concurrent instances.
type Budget struct {
	ID        int       `json:"id,omitempty"`
	UserID    string    `json:"userId"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// SetBudget creates or replaces the budget for a user/category pair.
func SetBudget(db *sql.DB, userID, category string, amount float64) error {
	_, err := db.Exec(`
		INSERT INTO budgets (user_id, category, amount, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, category) DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at
	`, userID, category, amount, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set budget: %w", err)
	}
	return nil
}

// GetBudgets returns all of a user's budgets keyed by category.
func GetBudgets(db *sql.DB, userID string) (map[string]float64, error) {
	rows, err := db.Query("SELECT category, amount FROM budgets WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	budgets := make(map[string]float64)
	for rows.Next() {
		var category string
		var amount float64
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets[category] = amount
	}

	return budgets, rows.Err()
}

// DeleteAllBudgets removes every budget owned by the user.
func DeleteAllBudgets(db *sql.DB, userID string) error {
	_, err := db.Exec("DELETE FROM budgets WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete budgets: %w", err)
	}
	return nil
}
