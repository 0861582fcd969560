package category

import "testing"

func TestSuggest(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"milk", "Dairy"},
		{"  MILK  ", "Dairy"},
		{"whole milk", "Dairy"},
		{"peanut butter", "Pantry"},
		{"frozen peas", "Frozen"},
		{"bananas", "Produce"},
		{"chicken thighs", "Meat & Seafood"},
		{"sourdough bread", "Bakery"},
		{"orange juice", "Beverages"},
		{"tortilla chips", "Bakery"},
		{"paper towels", "Household"},
		{"", "Other"},
		{"mystery item", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suggest(tt.name); got != tt.want {
				t.Errorf("Suggest(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
