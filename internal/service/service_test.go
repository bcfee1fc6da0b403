package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"advisor-marketplace-api/internal/apperr"
	"advisor-marketplace-api/internal/ledger"
	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/service"
	"advisor-marketplace-api/internal/store"
	"advisor-marketplace-api/internal/store/sqlite"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	svc   *service.Service
	st    *sqlite.Store
	clock *fakeClock
	n     int
}

var march15 = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "marketplace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(st.Close)

	clk := &fakeClock{now: march15}
	opts = append([]service.Option{
		service.WithClock(clk.Now),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return &fixture{svc: service.New(st, opts...), st: st, clock: clk}
}

func (f *fixture) user(t *testing.T, role model.Role) *model.User {
	t.Helper()
	f.n++
	u, err := f.svc.Register(context.Background(),
		fmt.Sprintf("%s-%d@test.com", role, f.n), "testpass123", "Test User", role)
	if err != nil {
		t.Fatalf("register %s: %v", role, err)
	}
	return u
}

// fund posts a top-up through the ledger so balance and history stay paired.
func (f *fixture) fund(t *testing.T, userID string, amount int) {
	t.Helper()
	err := f.st.WithAtomic(context.Background(), func(tx store.Tx) error {
		_, _, err := ledger.Post(context.Background(), tx, userID, amount, model.EntryCreditPurchase, "test-topup", f.clock.Now())
		return err
	})
	if err != nil {
		t.Fatalf("fund: %v", err)
	}
}

func (f *fixture) credits(t *testing.T, userID string) int {
	t.Helper()
	u, err := f.svc.GetAccount(context.Background(), userID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return u.Credits
}

func (f *fixture) reconciled(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		r, err := f.svc.Reconcile(context.Background(), id)
		if err != nil {
			t.Fatalf("reconcile: %v", err)
		}
		if !r.Balanced() {
			t.Fatalf("user %s: credits %d != ledger sum %d", id, r.Credits, r.LedgerSum)
		}
	}
}

// slotAt publishes a 30 minute slot starting at start.
func (f *fixture) slotAt(t *testing.T, advisorID string, start time.Time) *model.Availability {
	t.Helper()
	slot, err := f.svc.PublishAvailability(context.Background(), advisorID, start, start.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	return slot
}

// booked returns a SCHEDULED appointment between a funded founder and a new
// advisor, starting the day after the fixture clock.
func (f *fixture) booked(t *testing.T) (founder, advisor *model.User, appt *model.Appointment) {
	t.Helper()
	founder = f.user(t, model.RoleFounder)
	advisor = f.user(t, model.RoleAdvisor)
	f.fund(t, founder.ID, 10)
	slot := f.slotAt(t, advisor.ID, march15.Add(24*time.Hour))
	appt, err := f.svc.BookSlot(context.Background(), founder.ID, slot.ID)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	return founder, advisor, appt
}

func wantKind(t *testing.T, err error, target *apperr.Error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", target.Kind)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected %s error, got %v (%s)", target.Kind, err, apperr.KindOf(err))
	}
}
