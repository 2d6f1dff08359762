package models

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateTransaction is returned when an insert hits the
// (user_id, payment_id) uniqueness constraint. Callers treat this as
// "already imported", not as a failure.
var ErrDuplicateTransaction = errors.New("transaction already imported")

// Transaction is one imported and enriched payment record.
type Transaction struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	PaymentID       string         `json:"paymentId"`
	Amount          float64        `json:"amount"`
	Currency        string         `json:"currency"`
	Method          string         `json:"method"`
	Status          string         `json:"status"`
	Description     string         `json:"description"`
	CreatedAt       time.Time      `json:"createdAt"`
	MerchantDetails *PlaceDetails  `json:"merchantDetails,omitempty"`
	Category        string         `json:"category"`
	Location        *PlaceLocation `json:"location,omitempty"`
	IsRecurring     bool           `json:"isRecurring"`
	Anomaly         bool           `json:"anomaly"`
}

// MerchantName returns the established display name for the transaction's
// merchant, falling back to the raw description when the place lookup
// produced no name.
func (t *Transaction) MerchantName() string {
	if t.MerchantDetails != nil && t.MerchantDetails.Name != "" {
		return t.MerchantDetails.Name
	}
	return t.Description
}

// TransactionFilter narrows ListTransactions. Nil/zero fields are ignored.
type TransactionFilter struct {
	Category  string
	MinAmount *float64
	MaxAmount *float64
	From      *time.Time
	To        *time.Time
}

// InsertTransaction persists a new transaction. A conflict on
// (user_id, payment_id) yields ErrDuplicateTransaction.
func InsertTransaction(db *sql.DB, t *Transaction) error {
	var details []byte
	var err error
	if t.MerchantDetails != nil {
		details, err = json.Marshal(t.MerchantDetails)
		if err != nil {
			return fmt.Errorf("failed to encode merchant details: %w", err)
		}
	}

	var lat, lng sql.NullFloat64
	if t.Location != nil {
		lat = sql.NullFloat64{Float64: t.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: t.Location.Lng, Valid: true}
	}

	var merchantName sql.NullString
	if t.MerchantDetails != nil && t.MerchantDetails.Name != "" {
		merchantName = sql.NullString{String: t.MerchantDetails.Name, Valid: true}
	}

	_, err = db.Exec(`
		INSERT INTO transactions
			(id, user_id, payment_id, amount, currency, method, status, description,
			 created_at, merchant_name, merchant_details, category, lat, lng, is_recurring, anomaly)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.PaymentID, t.Amount, t.Currency, t.Method, t.Status, t.Description,
		t.CreatedAt, merchantName, string(details), t.Category, lat, lng, t.IsRecurring, t.Anomaly)

	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// ExistsByPaymentID reports whether the user already imported the payment.
func ExistsByPaymentID(db *sql.DB, userID, paymentID string) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM transactions WHERE user_id = ? AND payment_id = ?",
		userID, paymentID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing payment: %w", err)
	}
	return count > 0, nil
}

// HasRecurringTransaction reports whether a previously persisted
// transaction exists for the user with the same merchant display name and
// amount since the given cutoff. Rows without place metadata have a NULL
// merchant_name, so the match falls back to the raw description — the same
// fallback MerchantName uses on the read side.
func HasRecurringTransaction(db *sql.DB, userID, merchant string, amount float64, since time.Time) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM transactions
		WHERE user_id = ? AND COALESCE(merchant_name, description) = ? AND amount = ? AND created_at >= ?
	`, userID, merchant, amount, since).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for recurring transaction: %w", err)
	}
	return count > 0, nil
}

// ListTransactions returns the user's transactions matching the filter,
// newest first.
func ListTransactions(db *sql.DB, userID string, f TransactionFilter) ([]Transaction, error) {
	query := `
		SELECT id, user_id, payment_id, amount, currency, method, status, description,
		       created_at, merchant_details, category, lat, lng, is_recurring
		FROM transactions
		WHERE user_id = ?
	`
	args := []interface{}{userID}

	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.MinAmount != nil {
		query += " AND amount >= ?"
		args = append(args, *f.MinAmount)
	}
	if f.MaxAmount != nil {
		query += " AND amount <= ?"
		args = append(args, *f.MaxAmount)
	}
	if f.From != nil {
		query += " AND created_at >= ?"
		args = append(args, *f.From)
	}
	if f.To != nil {
		query += " AND created_at <= ?"
		args = append(args, *f.To)
	}

	query += " ORDER BY created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// DeleteAllTransactions removes every transaction owned by the user and
// returns how many rows were deleted.
func DeleteAllTransactions(db *sql.DB, userID string) (int64, error) {
	res, err := db.Exec("DELETE FROM transactions WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}
	return res.RowsAffected()
}

func scanTransaction(rows *sql.Rows) (Transaction, error) {
	var t Transaction
	var currency, method, status, description, details sql.NullString
	var lat, lng sql.NullFloat64

	err := rows.Scan(&t.ID, &t.UserID, &t.PaymentID, &t.Amount, &currency, &method,
		&status, &description, &t.CreatedAt, &details, &t.Category, &lat, &lng, &t.IsRecurring)
	if err != nil {
		return t, fmt.Errorf("failed to scan transaction: %w", err)
	}

	t.Currency = currency.String
	t.Method = method.String
	t.Status = status.String
	t.Description = description.String

	if details.Valid && details.String != "" {
		var pd PlaceDetails
		if err := json.Unmarshal([]byte(details.String), &pd); err == nil && !pd.IsEmpty() {
			t.MerchantDetails = &pd
		}
	}
	if lat.Valid && lng.Valid {
		t.Location = &PlaceLocation{Lat: lat.Float64, Lng: lng.Float64}
	}

	return t, nil
}
