package ledger

import "testing"

func TestQuote(t *testing.T) {
	tests := []struct {
		credits, amount, fee, net int
	}{
		{1, 10, 2, 8},
		{5, 50, 10, 40},
		{24, 240, 48, 192},
	}
	for _, tt := range tests {
		amount, fee, net := Quote(tt.credits)
		if amount != tt.amount || fee != tt.fee || net != tt.net {
			t.Errorf("Quote(%d) = %d, %d, %d; want %d, %d, %d",
				tt.credits, amount, fee, net, tt.amount, tt.fee, tt.net)
		}
		if amount != fee+net {
			t.Errorf("Quote(%d): amount %d != fee+net %d", tt.credits, amount, fee+net)
		}
	}
}

func TestReconciliationBalanced(t *testing.T) {
	if !(Reconciliation{Credits: 8, LedgerSum: 8}).Balanced() {
		t.Error("equal sums should balance")
	}
	if (Reconciliation{Credits: 8, LedgerSum: 10}).Balanced() {
		t.Error("diverged sums should not balance")
	}
}
