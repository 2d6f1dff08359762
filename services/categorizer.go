package services

import "spendlens/backend/models"

// categoryRules maps place type tags to spending categories. Rules are
// evaluated in order and the first match wins, so a restaurant that is
// also tagged as a bank still categorizes as Food.
var categoryRules = []struct {
	tags     []string
	category string
}{
	{[]string{"restaurant"}, models.CategoryFood},
	{[]string{"supermarket"}, models.CategoryGroceries},
	{[]string{"pharmacy"}, models.CategoryMedical},
	{[]string{"gas_station"}, models.CategoryTransport},
	{[]string{"shopping_mall", "store"}, models.CategoryShopping},
	{[]string{"bank"}, models.CategoryFinance},
	{[]string{"movie_theater"}, models.CategoryEntertainment},
}

// Categorize derives a spending category from a place's type tags. Unknown
// or empty tag sets fall through to Other.
func Categorize(types []string) string {
	tagSet := make(map[string]bool, len(types))
	for _, t := range types {
		tagSet[t] = true
	}

	for _, rule := range categoryRules {
		for _, tag := range rule.tags {
			if tagSet[tag] {
				return rule.category
			}
		}
	}

	return models.CategoryOther
}
