package normalize

import "testing"

func TestPrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		none  bool
	}{
		{"indian grouping", "₹1,23,456.00", 123456.0, false},
		{"plain rupee", "₹1,499", 1499, false},
		{"western grouping", "$1,234.56", 1234.56, false},
		{"surrounding space", "  ₹799.00  ", 799, false},
		{"sentinel n/a", "N/A", 0, true},
		{"sentinel none", "None", 0, true},
		{"empty", "", 0, true},
		{"out of stock", "Out of stock", 0, true},
		{"currently unavailable", "Currently unavailable", 0, true},
		{"sentinel case-insensitive", "out Of Stock", 0, true},
		{"symbols only", "₹ --", 0, true},
		{"two decimal points", "1.2.3", 0, true},
		{"zero is a value", "₹0", 0, false},
		{"negative sign is stripped", "-500", 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Price(tt.input)
			if tt.none {
				if got != nil {
					t.Fatalf("Price(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Price(%q) = nil, want %v", tt.input, tt.want)
			}
			if *got != tt.want {
				t.Errorf("Price(%q) = %v, want %v", tt.input, *got, tt.want)
			}
			if *got < 0 {
				t.Errorf("Price(%q) = %v, want non-negative", tt.input, *got)
			}
		})
	}
}

func TestDiscount(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		list    *float64
		current *float64
		want    float64
		none    bool
	}{
		{"twenty percent", f(1000), f(800), 20.0, false},
		{"rounds to one decimal", f(2999), f(2499), 16.7, false},
		{"zero list price", f(0), f(800), 0, true},
		{"negative list price", f(-100), f(800), 0, true},
		{"nil list price", nil, f(800), 0, true},
		{"nil current price", f(1000), nil, 0, true},
		{"both nil", nil, nil, 0, true},
		{"no discount", f(1000), f(1000), 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Discount(tt.list, tt.current)
			if tt.none {
				if got != nil {
					t.Fatalf("Discount = %v, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Discount = nil, want %v", tt.want)
			}
			if *got != tt.want {
				t.Errorf("Discount = %v, want %v", *got, tt.want)
			}
		})
	}
}
