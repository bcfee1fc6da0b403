package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"advisor-marketplace-api/internal/apperr"
	"advisor-marketplace-api/internal/model"
)

// Scenario D plus the book/cancel round trip.
func TestCancelRefundsAndRejectsSecondCancel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	founder, advisor, appt := f.booked(t)

	got, err := f.svc.CancelAppointment(ctx, founder.ID, appt.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != model.AppointmentCancelled {
		t.Errorf("expected CANCELLED, got %s", got.Status)
	}
	if c := f.credits(t, founder.ID); c != 10 {
		t.Errorf("expected founder back to 10 credits, got %d", c)
	}
	if c := f.credits(t, advisor.ID); c != 0 {
		t.Errorf("expected advisor back to 0 credits, got %d", c)
	}

	_, err = f.svc.CancelAppointment(ctx, founder.ID, appt.ID)
	wantKind(t, err, apperr.State)
	if c := f.credits(t, founder.ID); c != 10 {
		t.Errorf("second cancel refunded again: founder has %d", c)
	}
	f.reconciled(t, founder.ID, advisor.ID)
}

func TestCancelByAdvisor(t *testing.T) {
	f := setup(t)
	_, advisor, appt := f.booked(t)

	if _, err := f.svc.CancelAppointment(context.Background(), advisor.ID, appt.ID); err != nil {
		t.Fatalf("advisor cancel: %v", err)
	}
}

func TestCancelErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, advisor, appt := f.booked(t)
	stranger := f.user(t, model.RoleFounder)

	// completed appointments are terminal too
	_, _, done := f.booked(t)
	f.clock.Set(done.EndTime)
	if _, err := f.svc.CompleteAppointment(ctx, done.AdvisorID, done.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	tests := []struct {
		name   string
		caller string
		id     string
		want   *apperr.Error
	}{
		{"not a party", stranger.ID, appt.ID, apperr.Authorization},
		{"unknown appointment", advisor.ID, "missing", apperr.NotFound},
		{"already completed", done.FounderID, done.ID, apperr.State},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CancelAppointment(ctx, tt.caller, tt.id)
			wantKind(t, err, tt.want)
		})
	}
}

func TestCancelClawbackNeedsAdvisorBalance(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	founder, advisor, appt := f.booked(t)

	// advisor cashes out the 2 credits earned from the booking
	p, err := f.svc.RequestPayout(ctx, advisor.ID, "advisor@paypal.com")
	if err != nil {
		t.Fatalf("request payout: %v", err)
	}
	if _, err := f.svc.ApprovePayout(ctx, p.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	_, err = f.svc.CancelAppointment(ctx, founder.ID, appt.ID)
	wantKind(t, err, apperr.InsufficientBalance)

	got, err := f.svc.GetAppointment(ctx, founder.ID, appt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.AppointmentScheduled {
		t.Errorf("expected appointment to stay SCHEDULED, got %s", got.Status)
	}
	if c := f.credits(t, founder.ID); c != 8 {
		t.Errorf("expected no refund, founder has %d", c)
	}
	f.reconciled(t, founder.ID, advisor.ID)
}

func TestConcurrentCancel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	founder, advisor, appt := f.booked(t)

	const n = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		wins, lost int
	)
	for i := 0; i < n; i++ {
		caller := founder.ID
		if i%2 == 1 {
			caller = advisor.ID
		}
		wg.Add(1)
		go func(caller string) {
			defer wg.Done()
			_, err := f.svc.CancelAppointment(ctx, caller, appt.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case apperr.KindOf(err) == apperr.KindState:
				lost++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(caller)
	}
	wg.Wait()

	if wins != 1 || lost != n-1 {
		t.Fatalf("expected 1 winner and %d state errors, got %d and %d", n-1, wins, lost)
	}
	if c := f.credits(t, founder.ID); c != 10 {
		t.Errorf("expected a single refund, founder has %d", c)
	}
	f.reconciled(t, founder.ID, advisor.ID)
}

func TestCompleteBoundary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, advisor, appt := f.booked(t)

	f.clock.Set(appt.EndTime.Add(-time.Second))
	_, err := f.svc.CompleteAppointment(ctx, advisor.ID, appt.ID)
	wantKind(t, err, apperr.State)

	f.clock.Set(appt.EndTime)
	got, err := f.svc.CompleteAppointment(ctx, advisor.ID, appt.ID)
	if err != nil {
		t.Fatalf("complete at end time: %v", err)
	}
	if got.Status != model.AppointmentCompleted {
		t.Errorf("expected COMPLETED, got %s", got.Status)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(appt.EndTime) {
		t.Errorf("expected completedAt %v, got %v", appt.EndTime, got.CompletedAt)
	}

	_, err = f.svc.CompleteAppointment(ctx, advisor.ID, appt.ID)
	wantKind(t, err, apperr.State)

	// completion moves no credits
	if c := f.credits(t, advisor.ID); c != 2 {
		t.Errorf("expected advisor to keep 2 credits, got %d", c)
	}
}

func TestCompleteAdvisorOnly(t *testing.T) {
	f := setup(t)
	founder, _, appt := f.booked(t)
	f.clock.Set(appt.EndTime.Add(time.Minute))

	_, err := f.svc.CompleteAppointment(context.Background(), founder.ID, appt.ID)
	wantKind(t, err, apperr.Authorization)
}

func TestCompleteCancelled(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	founder, advisor, appt := f.booked(t)
	if _, err := f.svc.CancelAppointment(ctx, founder.ID, appt.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	f.clock.Set(appt.EndTime.Add(time.Minute))

	_, err := f.svc.CompleteAppointment(ctx, advisor.ID, appt.ID)
	wantKind(t, err, apperr.State)
}

func TestAddNotes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	founder, advisor, appt := f.booked(t)

	got, err := f.svc.AddNotes(ctx, advisor.ID, appt.ID, "discussed go-to-market")
	if err != nil {
		t.Fatalf("add notes: %v", err)
	}
	if got.Notes != "discussed go-to-market" {
		t.Errorf("unexpected notes %q", got.Notes)
	}

	_, err = f.svc.AddNotes(ctx, founder.ID, appt.ID, "founder notes")
	wantKind(t, err, apperr.Authorization)

	// allowed after the appointment is over
	if _, err := f.svc.CancelAppointment(ctx, founder.ID, appt.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.svc.AddNotes(ctx, advisor.ID, appt.ID, "no-show"); err != nil {
		t.Fatalf("notes on cancelled appointment: %v", err)
	}
}

func TestListAppointments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	founder, advisor, appt := f.booked(t)

	slot := f.slotAt(t, advisor.ID, appt.StartTime.Add(2*time.Hour))
	second, err := f.svc.BookSlot(ctx, founder.ID, slot.ID)
	if err != nil {
		t.Fatalf("book second: %v", err)
	}
	if _, err := f.svc.CancelAppointment(ctx, founder.ID, second.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	upcoming, err := f.svc.ListAdvisorAppointments(ctx, advisor.ID)
	if err != nil {
		t.Fatalf("list advisor: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != appt.ID {
		t.Errorf("expected only the scheduled appointment, got %+v", upcoming)
	}

	history, err := f.svc.ListFounderAppointments(ctx, founder.ID)
	if err != nil {
		t.Fatalf("list founder: %v", err)
	}
	if len(history) != 2 || history[0].ID != appt.ID || history[1].ID != second.ID {
		t.Errorf("expected both appointments by start time, got %+v", history)
	}
}
