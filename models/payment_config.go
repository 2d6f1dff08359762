package models

import (
	"database/sql"
	"fmt"
	"time"

	"spendlens/backend/security"
)

// PaymentConfig holds a user's payment-source API credentials. Secrets are
// AES-GCM encrypted at rest and never returned in API responses.
type PaymentConfig struct {
	UserID             string    `json:"userId"`
	EncryptedKeyID     string    `json:"-"`
	EncryptedKeySecret string    `json:"-"`
	KeyID              string    `json:"keyId,omitempty"` // input only
	KeySecret          string    `json:"keySecret,omitempty"`
	AutoImport         bool      `json:"autoImport"`
	LastImportTime     time.Time `json:"lastImportTime,omitempty"`
	CreatedAt          time.Time `json:"createdAt,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
	HasCredentials     bool      `json:"hasCredentials"`
}

// PaymentConfigUpdateRequest is the payload for updating a user's
// payment-source configuration.
type PaymentConfigUpdateRequest struct {
	KeyID      string `json:"keyId"`
	KeySecret  string `json:"keySecret"`
	AutoImport bool   `json:"autoImport"`
}

// GetPaymentConfig retrieves a user's payment-source configuration. A user
// with no stored configuration gets an empty config, not an error.
func GetPaymentConfig(db *sql.DB, userID string) (*PaymentConfig, error) {
	var config PaymentConfig
	var lastImport sql.NullTime

	err := db.QueryRow(`
		SELECT user_id, encrypted_key_id, encrypted_key_secret, auto_import,
		       last_import_time, created_at, updated_at
		FROM payment_configs
		WHERE user_id = ?
	`, userID).Scan(
		&config.UserID, &config.EncryptedKeyID, &config.EncryptedKeySecret,
		&config.AutoImport, &lastImport, &config.CreatedAt, &config.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return &PaymentConfig{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query payment config: %w", err)
	}

	if lastImport.Valid {
		config.LastImportTime = lastImport.Time
	}
	config.HasCredentials = config.EncryptedKeyID != "" && config.EncryptedKeySecret != ""

	return &config, nil
}

// UpdatePaymentConfig encrypts and stores a user's payment-source
// credentials.
func UpdatePaymentConfig(db *sql.DB, userID string, req PaymentConfigUpdateRequest) error {
	encryptedKeyID, err := security.Encrypt(req.KeyID)
	if err != nil {
		return fmt.Errorf("failed to encrypt key id: %w", err)
	}
	encryptedKeySecret, err := security.Encrypt(req.KeySecret)
	if err != nil {
		return fmt.Errorf("failed to encrypt key secret: %w", err)
	}

	now := time.Now()
	_, err = db.Exec(`
		INSERT INTO payment_configs (user_id, encrypted_key_id, encrypted_key_secret, auto_import, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			encrypted_key_id = excluded.encrypted_key_id,
			encrypted_key_secret = excluded.encrypted_key_secret,
			auto_import = excluded.auto_import,
			updated_at = excluded.updated_at
	`, userID, encryptedKeyID, encryptedKeySecret, req.AutoImport, now, now)
	if err != nil {
		return fmt.Errorf("failed to store payment config: %w", err)
	}

	return nil
}

// Credentials decrypts the stored key pair.
func (c *PaymentConfig) Credentials() (keyID, keySecret string, err error) {
	if !c.HasCredentials {
		return "", "", fmt.Errorf("no payment credentials stored for user %s", c.UserID)
	}
	keyID, err = security.Decrypt(c.EncryptedKeyID)
	if err != nil {
		return "", "", fmt.Errorf("failed to decrypt key id: %w", err)
	}
	keySecret, err = security.Decrypt(c.EncryptedKeySecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to decrypt key secret: %w", err)
	}
	return keyID, keySecret, nil
}

// UpdateLastImportTime records when the scheduler last imported for the
// user.
func UpdateLastImportTime(db *sql.DB, userID string) error {
	_, err := db.Exec(
		"UPDATE payment_configs SET last_import_time = ? WHERE user_id = ?",
		time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update last import time: %w", err)
	}
	return nil
}

// ListAutoImportUsers returns the ids of users who opted into scheduled
// imports and have credentials stored.
func ListAutoImportUsers(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT user_id FROM payment_configs
		WHERE auto_import = 1 AND encrypted_key_id != '' AND encrypted_key_secret != ''
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query auto-import users: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	return userIDs, rows.Err()
}

// DeletePaymentConfig removes the user's stored credentials.
func DeletePaymentConfig(db *sql.DB, userID string) error {
	_, err := db.Exec("DELETE FROM payment_configs WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete payment config: %w", err)
	}
	return nil
}
