package models

// Spending categories. Categorization always resolves to one of these,
// falling back to CategoryOther when no rule matches.
const (
	CategoryFood          = "Food"
	CategoryGroceries     = "Groceries"
	CategoryMedical       = "Medical"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryFinance       = "Finance"
	CategoryEntertainment = "Entertainment"
	CategoryOther         = "Other"
)

// Categories lists every spending category in display order.
var Categories = []string{
	CategoryFood,
	CategoryGroceries,
	CategoryMedical,
	CategoryTransport,
	CategoryShopping,
	CategoryFinance,
	CategoryEntertainment,
	CategoryOther,
}
