package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	_ "github.com/mattn/go-sqlite3"

	"spendlens/backend/database"
	"spendlens/backend/middleware"
	"spendlens/backend/migrations"
)

// TestUserID is the authenticated user used across handler tests.
const TestUserID = "test-user-id"

// SetupTestDB points database.DB at an in-memory database with the full
// schema.
func SetupTestDB() {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		panic(err)
	}
	// Every sqlite :memory: connection is its own database
	db.SetMaxOpenConns(1)

	if err := migrations.CreateBaseSchema(db); err != nil {
		panic(err)
	}

	database.DB = db
}

// CleanupTestDB closes the test database connection.
func CleanupTestDB() {
	if database.DB != nil {
		database.DB.Close()
	}
}

// SetupTestAuth adds authentication context to the request.
func SetupTestAuth(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, TestUserID)
	return req.WithContext(ctx)
}

// NewAuthenticatedRequest creates a test request with a JSON body and the
// test user already authenticated.
func NewAuthenticatedRequest(method, url string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		buf, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewBuffer(buf))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	return SetupTestAuth(req)
}
