package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"spendlens/backend/models"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  string
	}{
		{"restaurant", []string{"restaurant", "food", "point_of_interest"}, models.CategoryFood},
		{"supermarket", []string{"supermarket"}, models.CategoryGroceries},
		{"pharmacy", []string{"pharmacy", "health"}, models.CategoryMedical},
		{"gas station", []string{"gas_station"}, models.CategoryTransport},
		{"shopping mall", []string{"shopping_mall"}, models.CategoryShopping},
		{"store", []string{"store"}, models.CategoryShopping},
		{"bank", []string{"bank", "finance"}, models.CategoryFinance},
		{"movie theater", []string{"movie_theater"}, models.CategoryEntertainment},
		{"restaurant wins over bank", []string{"restaurant", "bank"}, models.CategoryFood},
		{"bank wins over movie theater", []string{"movie_theater", "bank"}, models.CategoryFinance},
		{"supermarket wins over store", []string{"store", "supermarket"}, models.CategoryGroceries},
		{"unknown tags", []string{"point_of_interest", "establishment"}, models.CategoryOther},
		{"empty tags", []string{}, models.CategoryOther},
		{"nil tags", nil, models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.types))
		})
	}
}

func TestCategorizeAlwaysReturnsKnownCategory(t *testing.T) {
	known := make(map[string]bool)
	for _, c := range models.Categories {
		known[c] = true
	}

	inputs := [][]string{
		nil,
		{"restaurant"},
		{"zoo"},
		{"bank", "atm", "finance"},
		{"shopping_mall", "movie_theater", "pharmacy"},
	}
	for _, types := range inputs {
		assert.True(t, known[Categorize(types)], "category for %v must be a known category", types)
	}
}
