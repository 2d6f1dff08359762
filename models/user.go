package models

import (
	"database/sql"
	"fmt"
	"time"
)

// User is an authenticated account. Identity comes from the auth provider;
// this row only carries profile data.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// GetUser fetches a user by id.
func GetUser(db *sql.DB, id string) (*User, error) {
	var u User
	var email sql.NullString
	err := db.QueryRow(
		"SELECT id, username, name, email, created_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Username, &u.Name, &email, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	u.Email = email.String
	return &u, nil
}

// UpsertUser creates or updates the profile row for an authenticated user.
func UpsertUser(db *sql.DB, u *User) error {
	_, err := db.Exec(`
		INSERT INTO users (id, username, name, email)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET username = excluded.username, name = excluded.name, email = excluded.email
	`, u.ID, u.Username, u.Name, u.Email)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// DeleteUser removes the user row itself. Callers are responsible for
// deleting the user's transactions, budgets and payment config first.
func DeleteUser(db *sql.DB, id string) error {
	_, err := db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
