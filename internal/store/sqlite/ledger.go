package sqlite

import (
	"context"
	"database/sql"

	"advisor-marketplace-api/internal/model"
)

const ledgerColumns = `id, user_id, amount, type, package_id, created_at`

func scanLedger(row interface{ Scan(...any) error }) (*model.LedgerEntry, error) {
	e := &model.LedgerEntry{}
	var typ string
	var pkg sql.NullString
	var created int64
	if err := row.Scan(&e.ID, &e.UserID, &e.Amount, &typ, &pkg, &created); err != nil {
		return nil, mapErr(err)
	}
	e.Type = model.EntryType(typ)
	e.PackageID = pkg.String
	e.CreatedAt = fromMillis(created)
	return e, nil
}

func (t *txn) AppendLedger(ctx context.Context, e *model.LedgerEntry) error {
	_, err := t.q.ExecContext(ctx,
		`INSERT INTO ledger_entries (id, user_id, amount, type, package_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Amount, string(e.Type), nullable(e.PackageID), toMillis(e.CreatedAt),
	)
	return mapErr(err)
}

func (t *txn) LatestLedger(ctx context.Context, userID string, typ model.EntryType) (*model.LedgerEntry, error) {
	return scanLedger(t.q.QueryRowContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		 WHERE user_id = ? AND type = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`, userID, string(typ)))
}

func (s *Store) ListLedger(ctx context.Context, userID string) ([]model.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		 WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LedgerEntry
	for rows.Next() {
		e, err := scanLedger(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *Store) SumLedger(ctx context.Context, userID string) (int, error) {
	var sum int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE user_id = ?`, userID,
	).Scan(&sum)
	return sum, mapErr(err)
}
