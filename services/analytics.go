package services

import (
	"sort"

	"spendlens/backend/models"
)

// SpendingAnalysis is the read-time aggregate over a user's transactions.
// Nothing here is persisted.
type SpendingAnalysis struct {
	ByCategory map[string]float64   `json:"byCategory"`
	ByMonth    map[string]float64   `json:"byMonth"`
	Total      float64              `json:"total"`
	Anomalies  []models.Transaction `json:"anomalies"`
}

// AnalyzeSpending computes category and month breakdowns, the grand total,
// and the anomaly subset: every transaction whose amount exceeds twice the
// mean. With no transactions the mean is 0 and the anomaly set is empty.
func AnalyzeSpending(transactions []models.Transaction) SpendingAnalysis {
	analysis := SpendingAnalysis{
		ByCategory: make(map[string]float64),
		ByMonth:    make(map[string]float64),
		Anomalies:  []models.Transaction{},
	}

	for _, t := range transactions {
		analysis.Total += t.Amount
		analysis.ByCategory[t.Category] += t.Amount
		analysis.ByMonth[t.CreatedAt.Format("2006-01")] += t.Amount
	}

	if len(transactions) == 0 {
		return analysis
	}

	mean := analysis.Total / float64(len(transactions))
	for _, t := range transactions {
		if t.Amount > 2*mean {
			t.Anomaly = true
			analysis.Anomalies = append(analysis.Anomalies, t)
		}
	}

	return analysis
}

// TopMerchants returns the user's most frequent merchants, at most limit
// of them, ordered by visit count (name breaks ties for a stable order).
func TopMerchants(transactions []models.Transaction, limit int) []string {
	counts := make(map[string]int)
	for _, t := range transactions {
		name := t.MerchantName()
		if name == "" {
			continue
		}
		counts[name]++
	}

	merchants := make([]string, 0, len(counts))
	for name := range counts {
		merchants = append(merchants, name)
	}
	sort.Slice(merchants, func(i, j int) bool {
		if counts[merchants[i]] != counts[merchants[j]] {
			return counts[merchants[i]] > counts[merchants[j]]
		}
		return merchants[i] < merchants[j]
	})

	if len(merchants) > limit {
		merchants = merchants[:limit]
	}
	return merchants
}
