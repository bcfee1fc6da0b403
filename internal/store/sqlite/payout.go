package sqlite

import (
	"context"
	"database/sql"
	"time"

	"advisor-marketplace-api/internal/model"
)

const payoutColumns = `id, advisor_id, amount, credits, platform_fee, net_amount,
	paypal_email, status, processed_at, created_at`

func scanPayout(row interface{ Scan(...any) error }) (*model.Payout, error) {
	p := &model.Payout{}
	var status string
	var processed sql.NullInt64
	var created int64
	err := row.Scan(&p.ID, &p.AdvisorID, &p.Amount, &p.Credits, &p.PlatformFee, &p.NetAmount,
		&p.PaypalEmail, &status, &processed, &created)
	if err != nil {
		return nil, mapErr(err)
	}
	p.Status = model.PayoutStatus(status)
	p.ProcessedAt = fromNullMillis(processed)
	p.CreatedAt = fromMillis(created)
	return p, nil
}

func (t *txn) ProcessingPayout(ctx context.Context, advisorID string) (*model.Payout, error) {
	return scanPayout(t.q.QueryRowContext(ctx,
		`SELECT `+payoutColumns+` FROM payouts
		 WHERE advisor_id = ? AND status = 'PROCESSING'`, advisorID))
}

func (t *txn) InsertPayout(ctx context.Context, p *model.Payout) error {
	_, err := t.q.ExecContext(ctx,
		`INSERT INTO payouts (id, advisor_id, amount, credits, platform_fee, net_amount, paypal_email, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AdvisorID, p.Amount, p.Credits, p.PlatformFee, p.NetAmount, p.PaypalEmail,
		string(p.Status), toMillis(p.CreatedAt),
	)
	return mapErr(err)
}

func (t *txn) LockPayout(ctx context.Context, id string) (*model.Payout, error) {
	return scanPayout(t.q.QueryRowContext(ctx,
		`SELECT `+payoutColumns+` FROM payouts WHERE id = ?`, id))
}

func (t *txn) MarkPayoutProcessed(ctx context.Context, id string, at time.Time) error {
	_, err := t.q.ExecContext(ctx,
		`UPDATE payouts SET status = 'PROCESSED', processed_at = ? WHERE id = ?`, toMillis(at), id)
	return mapErr(err)
}

func (s *Store) GetPayout(ctx context.Context, id string) (*model.Payout, error) {
	return scanPayout(s.db.QueryRowContext(ctx,
		`SELECT `+payoutColumns+` FROM payouts WHERE id = ?`, id))
}

func (s *Store) ListPayouts(ctx context.Context, advisorID string) ([]model.Payout, error) {
	return s.listPayouts(ctx,
		`SELECT `+payoutColumns+` FROM payouts
		 WHERE advisor_id = ? ORDER BY created_at DESC, rowid DESC`, advisorID)
}

func (s *Store) ListPayoutsByStatus(ctx context.Context, status model.PayoutStatus) ([]model.Payout, error) {
	return s.listPayouts(ctx,
		`SELECT `+payoutColumns+` FROM payouts
		 WHERE status = ? ORDER BY created_at, rowid`, string(status))
}

func (s *Store) listPayouts(ctx context.Context, q string, args ...any) ([]model.Payout, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
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
