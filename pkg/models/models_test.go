package models

import "testing"

func TestValidEAN(t *testing.T) {
	tests := []struct {
		ean  string
		want bool
	}{
		{"12345678", true},
		{"1234567890123", true},
		{"1234567", false},
		{"123456789", false},
		{"12345678901234", false},
		{"12345abc", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidEAN(tt.ean); got != tt.want {
			t.Errorf("ValidEAN(%q) = %v, want %v", tt.ean, got, tt.want)
		}
	}
}

func TestValidCategory(t *testing.T) {
	for _, category := range []string{CategoryAppetizer, CategoryMain, CategoryDessert, CategoryBeverage, CategorySide} {
		if !ValidCategory(category) {
			t.Errorf("ValidCategory(%q) = false", category)
		}
	}
	if ValidCategory("drinks") {
		t.Error("ValidCategory must reject unknown categories")
	}
}
