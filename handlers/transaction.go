package handlers

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"spendlens/backend/middleware"
	"spendlens/backend/models"
	"spendlens/backend/security"
	"spendlens/backend/services"
)

// TransactionHandler serves the transaction endpoints. The importer is
// injected so the metadata cache and API clients are wired once at
// startup.
type TransactionHandler struct {
	db       *sql.DB
	importer *services.Importer
}

func NewTransactionHandler(db *sql.DB, importer *services.Importer) *TransactionHandler {
	return &TransactionHandler{db: db, importer: importer}
}

type importRequest struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// ImportTransactions imports payments from the payment source for the
// requested window, enriches them and persists the new ones.
func (h *TransactionHandler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	if userID == "" {
		http.Error(w, "Unauthorized: No user ID found", http.StatusUnauthorized)
		return
	}

	var req importRequest
	if r.Body != nil {
		// An empty body means "default window"
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.To == 0 {
		req.To = time.Now().Unix()
	}
	if req.From == 0 {
		req.From = time.Now().AddDate(0, -1, 0).Unix()
	}

	count, err := h.importer.ImportTransactions(userID, req.From, req.To)
	if err != nil {
		http.Error(w, "Import failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Imported",
		"count":   count,
	})
}

// GetTransactions lists the user's transactions with optional filters:
// category, min, max, from, to and a fuzzy merchant search.
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	if userID == "" {
		http.Error(w, "Unauthorized: No user ID found", http.StatusUnauthorized)
		return
	}

	filter, err := parseTransactionFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transactions, err := models.ListTransactions(h.db, userID, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if merchant := r.URL.Query().Get("merchant"); merchant != "" {
		transactions = services.FilterByMerchant(transactions, merchant)
	}

	if transactions == nil {
		transactions = []models.Transaction{}
	}
	for i := range transactions {
		transactions[i].PaymentID = security.MaskPaymentID(transactions[i].PaymentID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}

// AnalyzeSpending returns the category/month breakdowns, grand total and
// anomaly subset for the user's transactions.
func (h *TransactionHandler) AnalyzeSpending(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	if userID == "" {
		http.Error(w, "Unauthorized: No user ID found", http.StatusUnauthorized)
		return
	}

	transactions, err := models.ListTransactions(h.db, userID, models.TransactionFilter{})
	if err != nil {
		http.Error(w, "Analysis failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	analysis := services.AnalyzeSpending(transactions)
	for i := range analysis.Anomalies {
		analysis.Anomalies[i].PaymentID = security.MaskPaymentID(analysis.Anomalies[i].PaymentID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analysis)
}

type budgetRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// SetBudget stores a spending limit for a category.
func (h *TransactionHandler) SetBudget(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	if userID == "" {
		http.Error(w, "Unauthorized: No user ID found", http.StatusUnauthorized)
		return
	}

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Category == "" {
		http.Error(w, "category is required", http.StatusBadRequest)
		return
	}
	if req.Amount < 0 {
		http.Error(w, "amount must not be negative", http.StatusBadRequest)
		return
	}

	if err := models.SetBudget(h.db, userID, req.Category, req.Amount); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	budgets, err := models.GetBudgets(h.db, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Budget set",
		"budgets": budgets,
	})
}

// GetBudget returns the user's budgets keyed by category.
func (h *TransactionHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	if userID == "" {
		http.Error(w, "Unauthorized: No user ID found", http.StatusUnauthorized)
		return
	}

	budgets, err := models.GetBudgets(h.db, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(budgets)
}

// ExportTransactions streams the user's transactions as CSV.
func (h *TransactionHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	if userID == "" {
		http.Error(w, "Unauthorized: No user ID found", http.StatusUnauthorized)
		return
	}

	transactions, err := models.ListTransactions(h.db, userID, models.TransactionFilter{})
	if err != nil {
		http.Error(w, "Export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"Date", "Merchant", "Category", "Amount", "Method", "Status"})
	for _, t := range transactions {
		merchant := ""
		if t.MerchantDetails != nil {
			merchant = t.MerchantDetails.Name
		}
		_ = writer.Write([]string{
			t.CreatedAt.Format(time.RFC3339),
			merchant,
			t.Category,
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			t.Method,
			t.Status,
		})
	}
	writer.Flush()
}

// ClearTransactions deletes all of the user's transactions (demo reset).
func (h *TransactionHandler) ClearTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	if userID == "" {
		http.Error(w, "Unauthorized: No user ID found", http.StatusUnauthorized)
		return
	}

	deleted, err := models.DeleteAllTransactions(h.db, userID)
	if err != nil {
		http.Error(w, "Clear failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "All transactions cleared for user.",
		"deleted": deleted,
	})
}

// GetRecommendations returns the user's top merchants by visit count.
func (h *TransactionHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r)
	if userID == "" {
		http.Error(w, "Unauthorized: No user ID found", http.StatusUnauthorized)
		return
	}

	transactions, err := models.ListTransactions(h.db, userID, models.TransactionFilter{})
	if err != nil {
		http.Error(w, "Recommendation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"recommendations": services.TopMerchants(transactions, 5),
	})
}

func parseTransactionFilter(r *http.Request) (models.TransactionFilter, error) {
	var filter models.TransactionFilter
	query := r.URL.Query()

	filter.Category = query.Get("category")

	if min := query.Get("min"); min != "" {
		v, err := strconv.ParseFloat(min, 64)
		if err != nil {
			return filter, err
		}
		filter.MinAmount = &v
	}
	if max := query.Get("max"); max != "" {
		v, err := strconv.ParseFloat(max, 64)
		if err != nil {
			return filter, err
		}
		filter.MaxAmount = &v
	}
	if from := query.Get("from"); from != "" {
		t, err := parseDate(from)
		if err != nil {
			return filter, err
		}
		filter.From = &t
	}
	if to := query.Get("to"); to != "" {
		t, err := parseDate(to)
		if err != nil {
			return filter, err
		}
		filter.To = &t
	}

	return filter, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
