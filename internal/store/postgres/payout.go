package postgres

import (
	"context"
	"time"

	"advisor-marketplace-api/internal/model"
)

const payoutColumns = `id, advisor_id, amount, credits, platform_fee, net_amount,
	paypal_email, status, processed_at, created_at`

func scanPayout(row interface{ Scan(...any) error }) (*model.Payout, error) {
	p := &model.Payout{}
	var status string
	err := row.Scan(&p.ID, &p.AdvisorID, &p.Amount, &p.Credits, &p.PlatformFee, &p.NetAmount,
		&p.PaypalEmail, &status, &p.ProcessedAt, &p.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	p.Status = model.PayoutStatus(status)
	return p, nil
}

func (t *txn) ProcessingPayout(ctx context.Context, advisorID string) (*model.Payout, error) {
	return scanPayout(t.q.QueryRow(ctx,
		`SELECT `+payoutColumns+` FROM payouts
		 WHERE advisor_id = $1 AND status = 'PROCESSING'`, advisorID))
}

// InsertPayout returns store.ErrConflict when idx_payouts_one_processing
// already holds a row for the advisor.
func (t *txn) InsertPayout(ctx context.Context, p *model.Payout) error {
	_, err := t.q.Exec(ctx,
		`INSERT INTO payouts (id, advisor_id, amount, credits, platform_fee, net_amount, paypal_email, status, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.AdvisorID, p.Amount, p.Credits, p.PlatformFee, p.NetAmount, p.PaypalEmail, string(p.Status), p.CreatedAt,
	)
	return mapErr(err)
}

func (t *txn) LockPayout(ctx context.Context, id string) (*model.Payout, error) {
	return scanPayout(t.q.QueryRow(ctx,
		`SELECT `+payoutColumns+` FROM payouts WHERE id = $1 FOR UPDATE`, id))
}

func (t *txn) MarkPayoutProcessed(ctx context.Context, id string, at time.Time) error {
	_, err := t.q.Exec(ctx,
		`UPDATE payouts SET status = 'PROCESSED', processed_at = $2 WHERE id = $1`, id, at)
	return mapErr(err)
}

func (s *Store) GetPayout(ctx context.Context, id string) (*model.Payout, error) {
	return scanPayout(s.pool.QueryRow(ctx,
		`SELECT `+payoutColumns+` FROM payouts WHERE id = $1`, id))
}

func (s *Store) ListPayouts(ctx context.Context, advisorID string) ([]model.Payout, error) {
	return s.listPayouts(ctx,
		`SELECT `+payoutColumns+` FROM payouts
		 WHERE advisor_id = $1 ORDER BY created_at DESC`, advisorID)
}

func (s *Store) ListPayoutsByStatus(ctx context.Context, status model.PayoutStatus) ([]model.Payout, error) {
	return s.listPayouts(ctx,
		`SELECT `+payoutColumns+` FROM payouts
		 WHERE status = $1 ORDER BY created_at`, string(status))
}

func (s *Store) listPayouts(ctx context.Context, q string, args ...any) ([]model.Payout, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
