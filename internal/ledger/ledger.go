// Package ledger pairs every credit-affecting entry with the matching update of
// the owner's denormalized balance, and checks that the two agree.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/store"
)

const (
	// AppointmentCost is what a founder pays, and an advisor receives, per booking.
	AppointmentCost = 2

	// CreditValue is the gross currency value of one credit at payout.
	CreditValue = 10

	PlatformFeePerCredit  = 2
	AdvisorSharePerCredit = CreditValue - PlatformFeePerCredit
)

// Post appends one entry and moves the owner's balance by the same signed
// amount. It must run inside store.WithAtomic; it returns the new balance.
// A debit that would take the balance below zero fails with
// store.ErrNegativeBalance and nothing is written.
func Post(ctx context.Context, tx store.Tx, userID string, amount int, typ model.EntryType, packageID string, at time.Time) (*model.LedgerEntry, int, error) {
	balance, err := tx.AdjustCredits(ctx, userID, amount)
	if err != nil {
		return nil, 0, err
	}
	e := &model.LedgerEntry{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Amount:    amount,
		Type:      typ,
		PackageID: packageID,
		CreatedAt: at,
	}
	if err := tx.AppendLedger(ctx, e); err != nil {
		return nil, 0, fmt.Errorf("append ledger: %w", err)
	}
	return e, balance, nil
}

// Quote splits a credit count into the payout amounts.
func Quote(credits int) (amount, platformFee, net int) {
	return credits * CreditValue, credits * PlatformFeePerCredit, credits * AdvisorSharePerCredit
}

type Reconciliation struct {
	UserID    string
	Credits   int
	LedgerSum int
}

func (r Reconciliation) Balanced() bool { return r.Credits == r.LedgerSum }

// Reconcile rebuilds a user's balance from the ledger and compares it to the
// stored credits.
func Reconcile(ctx context.Context, r store.Reader, userID string) (Reconciliation, error) {
	u, err := r.GetUser(ctx, userID)
	if err != nil {
		return Reconciliation{}, err
	}
	sum, err := r.SumLedger(ctx, userID)
	if err != nil {
		return Reconciliation{}, err
	}
	return Reconciliation{UserID: userID, Credits: u.Credits, LedgerSum: sum}, nil
}
