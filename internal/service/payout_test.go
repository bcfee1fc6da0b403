package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"advisor-marketplace-api/internal/apperr"
	"advisor-marketplace-api/internal/model"
)

// Scenario B.
func TestRequestPayout(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	advisor := f.user(t, model.RoleAdvisor)
	f.fund(t, advisor.ID, 5)

	p, err := f.svc.RequestPayout(ctx, advisor.ID, "advisor@paypal.com")
	if err != nil {
		t.Fatalf("request payout: %v", err)
	}
	want := model.Payout{Credits: 5, Amount: 50, PlatformFee: 10, NetAmount: 40, Status: model.PayoutProcessing}
	if p.Credits != want.Credits || p.Amount != want.Amount || p.PlatformFee != want.PlatformFee ||
		p.NetAmount != want.NetAmount || p.Status != want.Status {
		t.Errorf("unexpected payout %+v", p)
	}
	if p.Amount != p.PlatformFee+p.NetAmount {
		t.Errorf("amount %d != fee %d + net %d", p.Amount, p.PlatformFee, p.NetAmount)
	}
	// balance untouched until approval
	if c := f.credits(t, advisor.ID); c != 5 {
		t.Errorf("expected 5 credits after request, got %d", c)
	}

	_, err = f.svc.RequestPayout(ctx, advisor.ID, "advisor@paypal.com")
	wantKind(t, err, apperr.Conflict)
}

func TestRequestPayoutErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	broke := f.user(t, model.RoleAdvisor)
	founder := f.user(t, model.RoleFounder)
	f.fund(t, founder.ID, 5)

	tests := []struct {
		name   string
		caller string
		email  string
		want   *apperr.Error
	}{
		{"missing email", broke.ID, "  ", apperr.Validation},
		{"no credits", broke.ID, "a@paypal.com", apperr.Validation},
		{"founder cannot request", founder.ID, "a@paypal.com", apperr.Authorization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RequestPayout(ctx, tt.caller, tt.email)
			wantKind(t, err, tt.want)
		})
	}
}

func TestConcurrentPayoutRequests(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	advisor := f.user(t, model.RoleAdvisor)
	f.fund(t, advisor.ID, 7)

	const n = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins, dup int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RequestPayout(ctx, advisor.ID, "advisor@paypal.com")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case apperr.KindOf(err) == apperr.KindConflict:
				dup++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 || dup != n-1 {
		t.Fatalf("expected 1 request and %d conflicts, got %d and %d", n-1, wins, dup)
	}
	pending, err := f.svc.ListPendingPayouts(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 PROCESSING payout, got %d", len(pending))
	}
}

func TestApprovePayout(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	advisor := f.user(t, model.RoleAdvisor)
	f.fund(t, advisor.ID, 5)

	p, err := f.svc.RequestPayout(ctx, advisor.ID, "advisor@paypal.com")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	f.clock.Set(march15.Add(time.Hour))

	got, err := f.svc.ApprovePayout(ctx, p.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != model.PayoutProcessed || got.ProcessedAt == nil {
		t.Errorf("expected PROCESSED with timestamp, got %+v", got)
	}
	if c := f.credits(t, advisor.ID); c != 0 {
		t.Errorf("expected balance debited to 0, got %d", c)
	}
	f.reconciled(t, advisor.ID)

	entries, err := f.svc.ListLedger(ctx, advisor.ID)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if len(entries) == 0 || entries[0].Type != model.EntryPayout || entries[0].Amount != -5 {
		t.Errorf("expected newest entry to be the -5 payout debit, got %+v", entries)
	}

	_, err = f.svc.ApprovePayout(ctx, p.ID)
	wantKind(t, err, apperr.State)

	// a new request is allowed once the previous one is settled
	f.fund(t, advisor.ID, 1)
	if _, err := f.svc.RequestPayout(ctx, advisor.ID, "advisor@paypal.com"); err != nil {
		t.Fatalf("request after settlement: %v", err)
	}
}

// Scenario C.
func TestApprovePayoutInsufficientBalance(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	founder, advisor, appt := f.booked(t)
	f.fund(t, advisor.ID, 3)

	p, err := f.svc.RequestPayout(ctx, advisor.ID, "advisor@paypal.com")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if p.Credits != 5 {
		t.Fatalf("expected snapshot of 5 credits, got %d", p.Credits)
	}

	if _, err := f.svc.CancelAppointment(ctx, founder.ID, appt.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if c := f.credits(t, advisor.ID); c != 3 {
		t.Fatalf("expected advisor at 3 credits, got %d", c)
	}

	_, err = f.svc.ApprovePayout(ctx, p.ID)
	wantKind(t, err, apperr.InsufficientBalance)

	pending, err := f.svc.ListPendingPayouts(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != p.ID || pending[0].Status != model.PayoutProcessing {
		t.Errorf("expected payout left PROCESSING, got %+v", pending)
	}
	if c := f.credits(t, advisor.ID); c != 3 {
		t.Errorf("expected balance untouched, got %d", c)
	}
	f.reconciled(t, founder.ID, advisor.ID)
}

func TestApprovePayoutNotFound(t *testing.T) {
	f := setup(t)
	_, err := f.svc.ApprovePayout(context.Background(), "missing")
	wantKind(t, err, apperr.NotFound)
}

func TestListPayoutsNewestFirst(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	advisor := f.user(t, model.RoleAdvisor)

	var ids []string
	for i := 0; i < 3; i++ {
		f.fund(t, advisor.ID, 1)
		p, err := f.svc.RequestPayout(ctx, advisor.ID, "advisor@paypal.com")
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if _, err := f.svc.ApprovePayout(ctx, p.ID); err != nil {
			t.Fatalf("approve %d: %v", i, err)
		}
		ids = append(ids, p.ID)
		f.clock.Set(f.clock.Now().Add(time.Minute))
	}

	got, err := f.svc.ListPayouts(ctx, advisor.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].ID != ids[2] || got[2].ID != ids[0] {
		t.Errorf("expected newest first, got %+v", got)
	}
}

func TestGetEarnings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, advisor, appt := f.booked(t)

	f.clock.Set(appt.EndTime)
	if _, err := f.svc.CompleteAppointment(ctx, advisor.ID, appt.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	e, err := f.svc.GetEarnings(ctx, advisor.ID)
	if err != nil {
		t.Fatalf("earnings: %v", err)
	}
	if e.TotalEarnings != 16 {
		t.Errorf("expected total 16, got %d", e.TotalEarnings)
	}
	if e.ThisMonthEarnings != 16 || e.CompletedAppointments != 1 {
		t.Errorf("expected one completion worth 16 this month, got %+v", e)
	}
	// March is month 3
	if want := 16.0 / 3; e.AverageEarningsPerMonth != want {
		t.Errorf("expected average %v, got %v", want, e.AverageEarningsPerMonth)
	}
	if e.AvailableCredits != 2 || e.AvailablePayout != 16 {
		t.Errorf("unexpected available figures %+v", e)
	}

	f.clock.Set(time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC))
	e, err = f.svc.GetEarnings(ctx, advisor.ID)
	if err != nil {
		t.Fatalf("earnings: %v", err)
	}
	if e.ThisMonthEarnings != 0 || e.TotalEarnings != 16 {
		t.Errorf("expected March completion excluded in April, got %+v", e)
	}
	if e.CompletedAppointments != 1 {
		t.Errorf("expected lifetime completion count 1 in April, got %d", e.CompletedAppointments)
	}
}

func TestGetEarningsAdvisorOnly(t *testing.T) {
	f := setup(t)
	founder := f.user(t, model.RoleFounder)
	_, err := f.svc.GetEarnings(context.Background(), founder.ID)
	wantKind(t, err, apperr.Authorization)
}
