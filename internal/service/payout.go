package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"advisor-marketplace-api/internal/apperr"
	"advisor-marketplace-api/internal/ledger"
	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/store"
)

// RequestPayout snapshots the advisor's full balance into a PROCESSING
// payout. The balance itself is only debited on approval.
func (s *Service) RequestPayout(ctx context.Context, advisorID, paypalEmail string) (p *model.Payout, err error) {
	ctx, span := s.start(ctx, "RequestPayout", attribute.String("advisor.id", advisorID))
	defer func() { finish(span, err) }()

	paypalEmail = strings.TrimSpace(paypalEmail)
	if paypalEmail == "" {
		return nil, apperr.New(apperr.KindValidation, "paypal email required")
	}

	err = s.store.WithAtomic(ctx, func(tx store.Tx) error {
		advisor, err := requireRole(ctx, tx, advisorID, model.RoleAdvisor)
		if err != nil {
			return err
		}

		_, err = tx.ProcessingPayout(ctx, advisorID)
		switch {
		case err == nil:
			return apperr.New(apperr.KindConflict, "you already have a pending payout request")
		case !errors.Is(err, store.ErrNotFound):
			return classify(err, "pending payout")
		}

		if advisor.Credits <= 0 {
			return apperr.New(apperr.KindValidation, "no credits available for payout")
		}

		amount, fee, net := ledger.Quote(advisor.Credits)
		p = &model.Payout{
			ID:          newID(),
			AdvisorID:   advisorID,
			Amount:      amount,
			Credits:     advisor.Credits,
			PlatformFee: fee,
			NetAmount:   net,
			PaypalEmail: paypalEmail,
			Status:      model.PayoutProcessing,
			CreatedAt:   s.clock(),
		}
		err = tx.InsertPayout(ctx, p)
		if errors.Is(err, store.ErrConflict) {
			return apperr.New(apperr.KindConflict, "you already have a pending payout request")
		}
		return classify(err, "insert payout")
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "payout requested",
		"payout_id", p.ID, "advisor_id", advisorID, "credits", p.Credits, "net_amount", p.NetAmount)
	return p, nil
}

// ApprovePayout settles a PROCESSING payout: the advisor's balance is
// re-checked, debited through the ledger and the payout marked PROCESSED.
// When the balance no longer covers the snapshot the payout stays
// PROCESSING.
func (s *Service) ApprovePayout(ctx context.Context, payoutID string) (p *model.Payout, err error) {
	ctx, span := s.start(ctx, "ApprovePayout", attribute.String("payout.id", payoutID))
	defer func() { finish(span, err) }()

	now := s.clock()
	err = s.store.WithAtomic(ctx, func(tx store.Tx) error {
		payout, err := tx.LockPayout(ctx, payoutID)
		if err != nil {
			return classify(err, "payout")
		}
		if payout.Status != model.PayoutProcessing {
			return apperr.Newf(apperr.KindState, "payout is already %s", payout.Status)
		}

		advisor, err := tx.LockUser(ctx, payout.AdvisorID)
		if err != nil {
			return classify(err, "advisor")
		}
		if advisor.Credits < payout.Credits {
			return apperr.Newf(apperr.KindInsufficientBalance,
				"advisor has %d credits, payout needs %d", advisor.Credits, payout.Credits)
		}

		_, _, err = ledger.Post(ctx, tx, advisor.ID, -payout.Credits, model.EntryPayout, "", now)
		if errors.Is(err, store.ErrNegativeBalance) {
			return apperr.New(apperr.KindInsufficientBalance, "advisor balance cannot cover payout")
		}
		if err != nil {
			return classify(err, "debit advisor")
		}
		if err := tx.MarkPayoutProcessed(ctx, payout.ID, now); err != nil {
			return classify(err, "mark processed")
		}
		payout.Status = model.PayoutProcessed
		payout.ProcessedAt = &now
		p = payout
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "payout approved",
		"payout_id", p.ID, "advisor_id", p.AdvisorID, "credits", p.Credits)
	return p, nil
}

// ListPayouts returns the advisor's payout history, newest first.
func (s *Service) ListPayouts(ctx context.Context, advisorID string) ([]model.Payout, error) {
	out, err := s.store.ListPayouts(ctx, advisorID)
	if err != nil {
		return nil, classify(err, "list payouts")
	}
	return out, nil
}

// ListPendingPayouts returns every PROCESSING payout, oldest first.
func (s *Service) ListPendingPayouts(ctx context.Context) ([]model.Payout, error) {
	out, err := s.store.ListPayoutsByStatus(ctx, model.PayoutProcessing)
	if err != nil {
		return nil, classify(err, "list payouts")
	}
	return out, nil
}

// GetEarnings summarises an advisor's earnings. The total is derived from the
// current balance, so it drops after a payout is settled. CompletedAppointments
// counts every completion; only ThisMonthEarnings is bounded by the month.
func (s *Service) GetEarnings(ctx context.Context, advisorID string) (*model.Earnings, error) {
	advisor, err := s.Authorize(ctx, advisorID, model.RoleAdvisor)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	thisMonth, err := s.store.CountCompleted(ctx, advisorID, monthStart)
	if err != nil {
		return nil, classify(err, "count completed")
	}
	completed, err := s.store.CountCompleted(ctx, advisorID, time.Time{})
	if err != nil {
		return nil, classify(err, "count completed")
	}

	total := advisor.Credits * ledger.AdvisorSharePerCredit
	return &model.Earnings{
		TotalEarnings:           total,
		ThisMonthEarnings:       thisMonth * ledger.AppointmentCost * ledger.AdvisorSharePerCredit,
		CompletedAppointments:   completed,
		AverageEarningsPerMonth: float64(total) / float64(max(1, int(now.Month()))),
		AvailableCredits:        advisor.Credits,
		AvailablePayout:         advisor.Credits * ledger.AdvisorSharePerCredit,
	}, nil
}
