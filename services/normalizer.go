package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"spendlens/backend/models"
)

// Similarity thresholds (minimum score in [0,1] for a match). The import
// pipeline matches more permissively than the transaction list search.
const (
	normalizeThreshold = 0.3
	searchThreshold    = 0.4
)

// NormalizeMerchant fuzzy-matches a raw merchant string against the user's
// transaction history and returns the established display name of the best
// match. When nothing in the history clears the threshold (including the
// very first transaction for a merchant), the raw input is returned
// unchanged and becomes the canonical name later purchases converge on.
func NormalizeMerchant(db *sql.DB, userID, raw string) (string, error) {
	rows, err := db.Query(
		"SELECT merchant_name, description FROM transactions WHERE user_id = ?",
		userID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to load transaction history: %w", err)
	}
	defer rows.Close()

	best := raw
	bestScore := 0.0
	for rows.Next() {
		var merchantName, description sql.NullString
		if err := rows.Scan(&merchantName, &description); err != nil {
			return "", fmt.Errorf("failed to scan transaction history: %w", err)
		}

		score := similarity(raw, merchantName.String)
		if s := similarity(raw, description.String); s > score {
			score = s
		}
		if score > bestScore {
			bestScore = score
			if merchantName.String != "" {
				best = merchantName.String
			} else {
				best = description.String
			}
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to read transaction history: %w", err)
	}

	if bestScore >= normalizeThreshold {
		return best, nil
	}
	return raw, nil
}

// FilterByMerchant keeps the transactions whose merchant name or raw
// description fuzzy-matches the query. Used by the list endpoint's
// merchant search, which is stricter than import-time normalization.
func FilterByMerchant(transactions []models.Transaction, query string) []models.Transaction {
	matched := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		score := similarity(query, t.MerchantName())
		if s := similarity(query, t.Description); s > score {
			score = s
		}
		if score >= searchThreshold {
			matched = append(matched, t)
		}
	}
	return matched
}

// similarity scores two strings in [0,1] using Sørensen–Dice over bigrams,
// case-insensitively. Empty strings never match.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return strutil.Similarity(strings.ToLower(a), strings.ToLower(b), metrics.NewSorensenDice())
}
