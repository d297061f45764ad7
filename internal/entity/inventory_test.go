package entity

import "testing"

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name     string
		current  float64
		minimum  float64
		expected string
	}{
		{"zero stock", 0, 10, ItemStatusOutOfStock},
		{"negative guard", -1, 10, ItemStatusOutOfStock},
		{"at threshold", 10, 10, ItemStatusLowStock},
		{"below threshold", 5, 10, ItemStatusLowStock},
		{"above threshold", 11, 10, ItemStatusInStock},
		{"no threshold set", 1, 0, ItemStatusInStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := &InventoryItem{CurrentStock: tc.current, MinimumStock: tc.minimum}
			if got := item.DeriveStatus(); got != tc.expected {
				t.Errorf("DeriveStatus() = %s, want %s", got, tc.expected)
			}
		})
	}
}

func TestSuggestedReorderQty(t *testing.T) {
	item := &InventoryItem{CurrentStock: 5, MaximumStock: 100}
	if got := item.SuggestedReorderQty(); got != 95 {
		t.Errorf("expected top-up of 95, got %v", got)
	}

	item.ReorderQty = 40
	if got := item.SuggestedReorderQty(); got != 40 {
		t.Errorf("configured reorder qty should win, got %v", got)
	}

	full := &InventoryItem{CurrentStock: 100, MaximumStock: 100}
	if got := full.SuggestedReorderQty(); got != 0 {
		t.Errorf("full item should suggest 0, got %v", got)
	}
}

func TestNormalizeTransactionType(t *testing.T) {
	cases := map[string]string{
		"inbound":       TxTypeReceive,
		"outbound":      TxTypeIssue,
		"adjustment":    TxTypeAdjustmentIn,
		"receive":       TxTypeReceive,
		"transfer_out":  TxTypeTransferOut,
		"initial_stock": TxTypeInitialStock,
		"something":     "something",
	}
	for in, want := range cases {
		if got := NormalizeTransactionType(in); got != want {
			t.Errorf("NormalizeTransactionType(%q) = %q, want %q", in, got, want)
		}
	}
}
