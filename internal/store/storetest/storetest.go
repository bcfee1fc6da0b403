// Package storetest holds the behaviour every store backend must share. Each
// backend's tests call Run with a constructor for a fresh store.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/store"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func id() string { return uuid.Must(uuid.NewV7()).String() }

// Run exercises the store contract against stores produced by open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"users", testUsers},
		{"negative balance", testNegativeBalance},
		{"rollback", testRollback},
		{"ledger order", testLedgerOrder},
		{"slots", testSlots},
		{"appointments", testAppointments},
		{"payouts", testPayouts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, open(t))
		})
	}
}

func newUser(t *testing.T, s store.Store, role model.Role) *model.User {
	t.Helper()
	u := &model.User{
		ID:           id(),
		Email:        fmt.Sprintf("%s@store.test", uuid.New().String()[:12]),
		PasswordHash: "x",
		Name:         "Store Test",
		Role:         role,
		CreatedAt:    base,
		UpdatedAt:    base,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func post(t *testing.T, s store.Store, userID string, amount int, typ model.EntryType, pkg string, at time.Time) {
	t.Helper()
	err := s.WithAtomic(context.Background(), func(tx store.Tx) error {
		if _, err := tx.AdjustCredits(context.Background(), userID, amount); err != nil {
			return err
		}
		return tx.AppendLedger(context.Background(), &model.LedgerEntry{
			ID: id(), UserID: userID, Amount: amount, Type: typ, PackageID: pkg, CreatedAt: at,
		})
	})
	if err != nil {
		t.Fatalf("post %d: %v", amount, err)
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, model.RoleFounder)

	dup := *u
	dup.ID = id()
	if err := s.CreateUser(ctx, &dup); !errors.Is(err, store.ErrConflict) {
		t.Errorf("duplicate email: expected ErrConflict, got %v", err)
	}

	got, err := s.UserByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("by email: %v", err)
	}
	if got.ID != u.ID || got.Role != model.RoleFounder || got.Credits != 0 {
		t.Errorf("unexpected user %+v", got)
	}
	if _, err := s.GetUser(ctx, id()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing user: expected ErrNotFound, got %v", err)
	}
}

func testNegativeBalance(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, model.RoleAdvisor)
	post(t, s, u.ID, 1, model.EntryCreditPurchase, "seed", base)

	err := s.WithAtomic(ctx, func(tx store.Tx) error {
		_, err := tx.AdjustCredits(ctx, u.ID, -2)
		return err
	})
	if !errors.Is(err, store.ErrNegativeBalance) {
		t.Fatalf("expected ErrNegativeBalance, got %v", err)
	}
	got, _ := s.GetUser(ctx, u.ID)
	if got.Credits != 1 {
		t.Errorf("expected balance 1 after rejected debit, got %d", got.Credits)
	}
}

func testRollback(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, model.RoleFounder)

	boom := errors.New("boom")
	err := s.WithAtomic(ctx, func(tx store.Tx) error {
		if _, err := tx.AdjustCredits(ctx, u.ID, 5); err != nil {
			return err
		}
		if err := tx.AppendLedger(ctx, &model.LedgerEntry{
			ID: id(), UserID: u.ID, Amount: 5, Type: model.EntryCreditPurchase, CreatedAt: base,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error back, got %v", err)
	}

	got, _ := s.GetUser(ctx, u.ID)
	sum, _ := s.SumLedger(ctx, u.ID)
	if got.Credits != 0 || sum != 0 {
		t.Errorf("expected nothing committed, credits %d ledger %d", got.Credits, sum)
	}
}

func testLedgerOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, model.RoleFounder)
	post(t, s, u.ID, 10, model.EntryCreditPurchase, "standard", base)
	post(t, s, u.ID, -2, model.EntryAppointmentDeduction, "", base.Add(time.Hour))
	post(t, s, u.ID, 24, model.EntryCreditPurchase, "premium", base.Add(2*time.Hour))

	entries, err := s.ListLedger(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 || entries[0].PackageID != "premium" || entries[2].PackageID != "standard" {
		t.Fatalf("expected newest first, got %+v", entries)
	}
	if entries[1].PackageID != "" {
		t.Errorf("deduction carries package %q", entries[1].PackageID)
	}

	sum, err := s.SumLedger(ctx, u.ID)
	if err != nil || sum != 32 {
		t.Errorf("expected ledger sum 32, got %d (%v)", sum, err)
	}
	if got, _ := s.GetUser(ctx, u.ID); got.Credits != sum {
		t.Errorf("credits %d != ledger %d", got.Credits, sum)
	}

	err = s.WithAtomic(ctx, func(tx store.Tx) error {
		last, err := tx.LatestLedger(ctx, u.ID, model.EntryCreditPurchase)
		if err != nil {
			return err
		}
		if last.PackageID != "premium" || !last.CreatedAt.Equal(base.Add(2*time.Hour)) {
			t.Errorf("unexpected latest grant %+v", last)
		}
		_, err = tx.LatestLedger(ctx, u.ID, model.EntryPayout)
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing type, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
}

func testSlots(t *testing.T, s store.Store) {
	ctx := context.Background()
	founder := newUser(t, s, model.RoleFounder)
	advisor := newUser(t, s, model.RoleAdvisor)

	slot := func(start time.Time) *model.Availability {
		return &model.Availability{
			ID: id(), AdvisorID: advisor.ID, StartTime: start, EndTime: start.Add(time.Hour),
			Status: model.SlotAvailable, CreatedAt: base,
		}
	}
	booked, open := slot(base.Add(2*time.Hour)), slot(base.Add(time.Hour))
	appt := &model.Appointment{
		ID: id(), FounderID: founder.ID, AdvisorID: advisor.ID,
		StartTime: booked.StartTime, EndTime: booked.EndTime,
		Status: model.AppointmentScheduled, CreatedAt: base, UpdatedAt: base,
	}

	err := s.WithAtomic(ctx, func(tx store.Tx) error {
		for _, a := range []*model.Availability{booked, open} {
			if err := tx.InsertSlot(ctx, a); err != nil {
				return err
			}
		}
		if err := tx.InsertAppointment(ctx, appt); err != nil {
			return err
		}
		if err := tx.AttachAppointment(ctx, booked.ID, appt.ID); err != nil {
			return err
		}
		if err := tx.AttachAppointment(ctx, booked.ID, appt.ID); !errors.Is(err, store.ErrConflict) {
			t.Errorf("second attach: expected ErrConflict, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	slots, err := s.ListAvailability(ctx, advisor.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 2 || slots[0].ID != open.ID || slots[1].AppointmentID != appt.ID {
		t.Fatalf("expected slots by start time, got %+v", slots)
	}

	var removed int64
	err = s.WithAtomic(ctx, func(tx store.Tx) error {
		var err error
		removed, err = tx.DeleteOpenSlots(ctx, advisor.ID)
		return err
	})
	if err != nil || removed != 1 {
		t.Fatalf("expected 1 open slot removed, got %d (%v)", removed, err)
	}
	slots, _ = s.ListAvailability(ctx, advisor.ID)
	if len(slots) != 1 || slots[0].Status != model.SlotBooked {
		t.Errorf("expected only the booked slot left, got %+v", slots)
	}
}

func testAppointments(t *testing.T, s store.Store) {
	ctx := context.Background()
	founder := newUser(t, s, model.RoleFounder)
	advisor := newUser(t, s, model.RoleAdvisor)

	appts := make([]*model.Appointment, 3)
	for i := range appts {
		start := base.Add(time.Duration(3-i) * time.Hour)
		appts[i] = &model.Appointment{
			ID: id(), FounderID: founder.ID, AdvisorID: advisor.ID,
			StartTime: start, EndTime: start.Add(time.Hour),
			Status: model.AppointmentScheduled, CreatedAt: base, UpdatedAt: base,
		}
	}
	err := s.WithAtomic(ctx, func(tx store.Tx) error {
		for _, a := range appts {
			if err := tx.InsertAppointment(ctx, a); err != nil {
				return err
			}
		}
		done, err := tx.LockAppointment(ctx, appts[0].ID)
		if err != nil {
			return err
		}
		at := base.Add(5 * time.Hour)
		done.Status = model.AppointmentCompleted
		done.CompletedAt = &at
		done.Notes = "wrap-up"
		return tx.UpdateAppointment(ctx, done)
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	got, err := s.GetAppointment(ctx, appts[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.AppointmentCompleted || got.Notes != "wrap-up" || got.CompletedAt == nil {
		t.Errorf("update not persisted: %+v", got)
	}

	scheduled, _ := s.ListAdvisorAppointments(ctx, advisor.ID, model.AppointmentScheduled)
	if len(scheduled) != 2 || scheduled[0].ID != appts[2].ID {
		t.Errorf("expected 2 scheduled by start time, got %+v", scheduled)
	}
	all, _ := s.ListFounderAppointments(ctx, founder.ID)
	if len(all) != 3 || all[0].ID != appts[2].ID || all[2].ID != appts[0].ID {
		t.Errorf("expected all 3 by start time, got %+v", all)
	}

	for _, tc := range []struct {
		since time.Time
		want  int
	}{
		{time.Time{}, 1},
		{base, 1},
		{base.Add(5 * time.Hour), 1},
		{base.Add(6 * time.Hour), 0},
	} {
		n, err := s.CountCompleted(ctx, advisor.ID, tc.since)
		if err != nil || n != tc.want {
			t.Errorf("CountCompleted(since %v) = %d (%v), want %d", tc.since, n, err, tc.want)
		}
	}

	if _, err := s.GetAppointment(ctx, id()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testPayouts(t *testing.T, s store.Store) {
	ctx := context.Background()
	advisor := newUser(t, s, model.RoleAdvisor)

	payout := func(at time.Time) *model.Payout {
		return &model.Payout{
			ID: id(), AdvisorID: advisor.ID, Amount: 50, Credits: 5, PlatformFee: 10, NetAmount: 40,
			PaypalEmail: "a@paypal.com", Status: model.PayoutProcessing, CreatedAt: at,
		}
	}
	first, second := payout(base), payout(base.Add(time.Hour))

	insert := func(p *model.Payout) error {
		return s.WithAtomic(ctx, func(tx store.Tx) error { return tx.InsertPayout(ctx, p) })
	}
	if err := insert(first); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := insert(second); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("second PROCESSING payout: expected ErrConflict, got %v", err)
	}

	err := s.WithAtomic(ctx, func(tx store.Tx) error {
		p, err := tx.ProcessingPayout(ctx, advisor.ID)
		if err != nil {
			return err
		}
		if p.ID != first.ID {
			t.Errorf("unexpected processing payout %s", p.ID)
		}
		return tx.MarkPayoutProcessed(ctx, p.ID, base.Add(30*time.Minute))
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := insert(second); err != nil {
		t.Fatalf("insert after processing: %v", err)
	}

	all, err := s.ListPayouts(ctx, advisor.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ProcessedAt == nil {
		t.Errorf("expected newest first with processed timestamp, got %+v", all)
	}

	pending, _ := s.ListPayoutsByStatus(ctx, model.PayoutProcessing)
	found := false
	for _, p := range pending {
		if p.ID == first.ID {
			t.Errorf("processed payout listed as pending")
		}
		if p.ID == second.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("pending payout missing from status listing")
	}
}
