package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/store"
	"advisor-marketplace-api/internal/store/storetest"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return open(t) })
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	u := &model.User{ID: "u1", Email: "keep@test.com", Role: model.RoleFounder}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.GetUser(context.Background(), "u1"); err != nil {
		t.Fatalf("user lost across reopen: %v", err)
	}
}

func TestLedgerAppendOnly(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	if err := s.CreateUser(ctx, &model.User{ID: "u1", Email: "ledger@test.com", Role: model.RoleFounder}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := s.WithAtomic(ctx, func(tx store.Tx) error {
		return tx.AppendLedger(ctx, &model.LedgerEntry{ID: "e1", UserID: "u1", Amount: 10, Type: model.EntryCreditPurchase})
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	for _, q := range []string{
		`UPDATE ledger_entries SET amount = 99 WHERE id = 'e1'`,
		`DELETE FROM ledger_entries WHERE id = 'e1'`,
	} {
		_, err := s.db.ExecContext(ctx, q)
		if err == nil || !strings.Contains(err.Error(), "append-only") {
			t.Errorf("%s: expected append-only rejection, got %v", q, err)
		}
	}
}
