package models

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"spendlens/backend/migrations"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrations.CreateBaseSchema(db); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func testTransaction(id, userID, paymentID string, amount float64, createdAt time.Time) *Transaction {
	return &Transaction{
		ID:          id,
		UserID:      userID,
		PaymentID:   paymentID,
		Amount:      amount,
		Currency:    "INR",
		Method:      "card",
		Status:      "captured",
		Description: "Test Merchant",
		CreatedAt:   createdAt,
		Category:    CategoryOther,
	}
}

func TestInsertTransactionDuplicate(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	err := InsertTransaction(db, testTransaction("t1", "user-1", "pay_1", 100, now))
	if err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err = InsertTransaction(db, testTransaction("t2", "user-1", "pay_1", 100, now))
	if !errors.Is(err, ErrDuplicateTransaction) {
		t.Errorf("expected ErrDuplicateTransaction, got %v", err)
	}

	// Same payment id for a different user is fine
	err = InsertTransaction(db, testTransaction("t3", "user-2", "pay_1", 100, now))
	if err != nil {
		t.Errorf("insert for different user failed: %v", err)
	}
}

func TestExistsByPaymentID(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	if err := InsertTransaction(db, testTransaction("t1", "user-1", "pay_1", 100, now)); err != nil {
		t.Fatal(err)
	}

	exists, err := ExistsByPaymentID(db, "user-1", "pay_1")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("expected payment to exist")
	}

	exists, err = ExistsByPaymentID(db, "user-2", "pay_1")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("payment must be scoped to its user")
	}
}

func TestHasRecurringTransaction(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	tx := testTransaction("t1", "user-1", "pay_1", 1500, now.AddDate(0, 0, -30))
	tx.MerchantDetails = &PlaceDetails{Name: "Starbucks", Types: []string{"restaurant"}}
	if err := InsertTransaction(db, tx); err != nil {
		t.Fatal(err)
	}

	since := now.Add(-60 * 24 * time.Hour)

	recurring, err := HasRecurringTransaction(db, "user-1", "Starbucks", 1500, since)
	if err != nil {
		t.Fatal(err)
	}
	if !recurring {
		t.Error("expected matching merchant+amount inside the window to be recurring")
	}

	// Different amount is not recurring
	recurring, err = HasRecurringTransaction(db, "user-1", "Starbucks", 1501, since)
	if err != nil {
		t.Fatal(err)
	}
	if recurring {
		t.Error("different amount must not be recurring")
	}

	// Outside the window is not recurring
	recurring, err = HasRecurringTransaction(db, "user-1", "Starbucks", 1500, now.AddDate(0, 0, -10))
	if err != nil {
		t.Fatal(err)
	}
	if recurring {
		t.Error("transaction before the cutoff must not be recurring")
	}
}

func TestHasRecurringTransactionWithoutMerchantName(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	// No place metadata: merchant_name is NULL and the display name is the
	// raw description
	tx := testTransaction("t1", "user-1", "pay_1", 200, now.AddDate(0, 0, -10))
	tx.Description = "Corner Shop"
	if err := InsertTransaction(db, tx); err != nil {
		t.Fatal(err)
	}

	since := now.Add(-60 * 24 * time.Hour)

	recurring, err := HasRecurringTransaction(db, "user-1", "Corner Shop", 200, since)
	if err != nil {
		t.Fatal(err)
	}
	if !recurring {
		t.Error("expected description match when merchant_name is NULL")
	}

	recurring, err = HasRecurringTransaction(db, "user-1", "Other Shop", 200, since)
	if err != nil {
		t.Fatal(err)
	}
	if recurring {
		t.Error("different description must not be recurring")
	}
}

func TestListTransactionsFilters(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	seed := []*Transaction{
		testTransaction("t1", "user-1", "pay_1", 100, base),
		testTransaction("t2", "user-1", "pay_2", 500, base.AddDate(0, 0, 5)),
		testTransaction("t3", "user-1", "pay_3", 2000, base.AddDate(0, 0, 10)),
		testTransaction("t4", "user-2", "pay_4", 100, base),
	}
	seed[1].Category = CategoryFood
	for _, tx := range seed {
		if err := InsertTransaction(db, tx); err != nil {
			t.Fatal(err)
		}
	}

	all, err := ListTransactions(db, "user-1", TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(all))
	}
	if all[0].ID != "t3" {
		t.Errorf("expected newest first, got %s", all[0].ID)
	}

	byCategory, err := ListTransactions(db, "user-1", TransactionFilter{Category: CategoryFood})
	if err != nil {
		t.Fatal(err)
	}
	if len(byCategory) != 1 || byCategory[0].ID != "t2" {
		t.Errorf("category filter returned wrong rows: %+v", byCategory)
	}

	min := 200.0
	max := 1000.0
	byAmount, err := ListTransactions(db, "user-1", TransactionFilter{MinAmount: &min, MaxAmount: &max})
	if err != nil {
		t.Fatal(err)
	}
	if len(byAmount) != 1 || byAmount[0].ID != "t2" {
		t.Errorf("amount filter returned wrong rows: %+v", byAmount)
	}

	from := base.AddDate(0, 0, 7)
	byDate, err := ListTransactions(db, "user-1", TransactionFilter{From: &from})
	if err != nil {
		t.Fatal(err)
	}
	if len(byDate) != 1 || byDate[0].ID != "t3" {
		t.Errorf("date filter returned wrong rows: %+v", byDate)
	}
}

func TestListTransactionsRoundTripsMetadata(t *testing.T) {
	db := newTestDB(t)

	tx := testTransaction("t1", "user-1", "pay_1", 100, time.Now().UTC())
	tx.MerchantDetails = &PlaceDetails{
		PlaceID:  "p1",
		Name:     "Starbucks",
		Types:    []string{"restaurant", "cafe"},
		Geometry: &PlaceGeometry{Location: PlaceLocation{Lat: 12.9, Lng: 77.6}},
	}
	tx.Location = &PlaceLocation{Lat: 12.9, Lng: 77.6}
	tx.IsRecurring = true
	if err := InsertTransaction(db, tx); err != nil {
		t.Fatal(err)
	}

	got, err := ListTransactions(db, "user-1", TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(got))
	}

	if got[0].MerchantDetails == nil || got[0].MerchantDetails.Name != "Starbucks" {
		t.Errorf("merchant details not preserved: %+v", got[0].MerchantDetails)
	}
	if got[0].Location == nil || got[0].Location.Lng != 77.6 {
		t.Errorf("location not preserved: %+v", got[0].Location)
	}
	if !got[0].IsRecurring {
		t.Error("recurring flag not preserved")
	}
}

func TestDeleteAllTransactions(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	for i, id := range []string{"pay_1", "pay_2", "pay_3"} {
		if err := InsertTransaction(db, testTransaction(id, "user-1", id, float64(i+1)*100, now)); err != nil {
			t.Fatal(err)
		}
	}
	if err := InsertTransaction(db, testTransaction("other", "user-2", "pay_9", 100, now)); err != nil {
		t.Fatal(err)
	}

	deleted, err := DeleteAllTransactions(db, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	remaining, err := ListTransactions(db, "user-2", TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 {
		t.Errorf("other users' transactions must be untouched, got %d", len(remaining))
	}
}
