package category

import "strings"

// Suggest guesses a category from a product name for manual entries that
// arrive without one. Exact matches win over substring matches; unknown names
// fall back to "Other".
func Suggest(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "Other"
	}

	if cat, ok := exact[n]; ok {
		return cat
	}
	for _, kw := range keywords {
		if strings.Contains(n, kw.match) {
			return kw.category
		}
	}
	return "Other"
}

var exact = map[string]string{
	"milk":   "Dairy",
	"eggs":   "Dairy",
	"butter": "Dairy",
	"cheese": "Dairy",
	"yogurt": "Dairy",

	"bread":     "Bakery",
	"bagels":    "Bakery",
	"tortillas": "Bakery",

	"apples":   "Produce",
	"bananas":  "Produce",
	"tomatoes": "Produce",
	"potatoes": "Produce",
	"onions":   "Produce",
	"lettuce":  "Produce",
	"garlic":   "Produce",

	"chicken": "Meat & Seafood",
	"beef":    "Meat & Seafood",
	"pork":    "Meat & Seafood",
	"salmon":  "Meat & Seafood",
	"bacon":   "Meat & Seafood",

	"rice":  "Pantry",
	"pasta": "Pantry",
	"flour": "Pantry",
	"sugar": "Pantry",
	"salt":  "Pantry",
	"oil":   "Pantry",

	"coffee": "Beverages",
	"tea":    "Beverages",
	"juice":  "Beverages",
	"water":  "Beverages",
}

type keyword struct {
	match    string
	category string
}

// Longer phrases come first so "peanut butter" does not land in Dairy.
var keywords = []keyword{
	{"peanut butter", "Pantry"},
	{"olive oil", "Pantry"},
	{"ice cream", "Frozen"},
	{"sparkling water", "Beverages"},

	{"yogurt", "Dairy"},
	{"cheese", "Dairy"},
	{"cream", "Dairy"},
	{"milk", "Dairy"},
	{"butter", "Dairy"},
	{"egg", "Dairy"},

	{"bread", "Bakery"},
	{"bagel", "Bakery"},
	{"tortilla", "Bakery"},
	{"bun", "Bakery"},
	{"muffin", "Bakery"},

	{"chicken", "Meat & Seafood"},
	{"beef", "Meat & Seafood"},
	{"turkey", "Meat & Seafood"},
	{"sausage", "Meat & Seafood"},
	{"shrimp", "Meat & Seafood"},
	{"fish", "Meat & Seafood"},

	{"apple", "Produce"},
	{"banana", "Produce"},
	{"tomato", "Produce"},
	{"potato", "Produce"},
	{"onion", "Produce"},
	{"pepper", "Produce"},
	{"carrot", "Produce"},
	{"berry", "Produce"},
	{"berries", "Produce"},
	{"salad", "Produce"},

	{"frozen", "Frozen"},

	{"cereal", "Pantry"},
	{"sauce", "Pantry"},
	{"soup", "Pantry"},
	{"bean", "Pantry"},
	{"noodle", "Pantry"},
	{"spice", "Pantry"},

	{"juice", "Beverages"},
	{"soda", "Beverages"},
	{"coffee", "Beverages"},
	{"beer", "Beverages"},
	{"wine", "Beverages"},

	{"chip", "Snacks"},
	{"cracker", "Snacks"},
	{"cookie", "Snacks"},
	{"candy", "Snacks"},
	{"chocolate", "Snacks"},
	{"snack", "Snacks"},

	{"paper towel", "Household"},
	{"toilet paper", "Household"},
	{"detergent", "Household"},
	{"soap", "Household"},
	{"cleaner", "Household"},

	{"shampoo", "Personal Care"},
	{"toothpaste", "Personal Care"},
	{"deodorant", "Personal Care"},
	{"lotion", "Personal Care"},
}
