package sqlite

import (
	"context"
	"database/sql"

	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/store"
)

const slotColumns = `id, advisor_id, start_time, end_time, status, appointment_id, created_at`

func scanSlot(row interface{ Scan(...any) error }) (*model.Availability, error) {
	a := &model.Availability{}
	var status string
	var apptID sql.NullString
	var start, end, created int64
	if err := row.Scan(&a.ID, &a.AdvisorID, &start, &end, &status, &apptID, &created); err != nil {
		return nil, mapErr(err)
	}
	a.StartTime = fromMillis(start)
	a.EndTime = fromMillis(end)
	a.Status = model.SlotStatus(status)
	a.AppointmentID = apptID.String
	a.CreatedAt = fromMillis(created)
	return a, nil
}

func (t *txn) DeleteOpenSlots(ctx context.Context, advisorID string) (int64, error) {
	res, err := t.q.ExecContext(ctx,
		`DELETE FROM availabilities WHERE advisor_id = ? AND appointment_id IS NULL`, advisorID)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}

func (t *txn) InsertSlot(ctx context.Context, a *model.Availability) error {
	_, err := t.q.ExecContext(ctx,
		`INSERT INTO availabilities (id, advisor_id, start_time, end_time, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.AdvisorID, toMillis(a.StartTime), toMillis(a.EndTime), string(a.Status), toMillis(a.CreatedAt),
	)
	return mapErr(err)
}

func (t *txn) LockSlot(ctx context.Context, id string) (*model.Availability, error) {
	return scanSlot(t.q.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM availabilities WHERE id = ?`, id))
}

func (t *txn) AttachAppointment(ctx context.Context, slotID, appointmentID string) error {
	res, err := t.q.ExecContext(ctx,
		`UPDATE availabilities SET status = 'BOOKED', appointment_id = ?
		 WHERE id = ? AND status = 'AVAILABLE'`, appointmentID, slotID)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (s *Store) ListAvailability(ctx context.Context, advisorID string) ([]model.Availability, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM availabilities
		 WHERE advisor_id = ? ORDER BY start_time`, advisorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Availability
	for rows.Next() {
		a, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
