package postgres

import (
	"context"

	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/store"
)

const slotColumns = `id, advisor_id, start_time, end_time, status, appointment_id, created_at`

func scanSlot(row interface{ Scan(...any) error }) (*model.Availability, error) {
	a := &model.Availability{}
	var status string
	var apptID *string
	if err := row.Scan(&a.ID, &a.AdvisorID, &a.StartTime, &a.EndTime, &status, &apptID, &a.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	a.Status = model.SlotStatus(status)
	a.AppointmentID = deref(apptID)
	return a, nil
}

// DeleteOpenSlots removes every slot of the advisor that has no appointment
// attached. Booked slots survive a republish.
func (t *txn) DeleteOpenSlots(ctx context.Context, advisorID string) (int64, error) {
	tag, err := t.q.Exec(ctx,
		`DELETE FROM availabilities WHERE advisor_id = $1 AND appointment_id IS NULL`, advisorID)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}

func (t *txn) InsertSlot(ctx context.Context, a *model.Availability) error {
	_, err := t.q.Exec(ctx,
		`INSERT INTO availabilities (id, advisor_id, start_time, end_time, status, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.AdvisorID, a.StartTime, a.EndTime, string(a.Status), a.CreatedAt,
	)
	return mapErr(err)
}

func (t *txn) LockSlot(ctx context.Context, id string) (*model.Availability, error) {
	return scanSlot(t.q.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM availabilities WHERE id = $1 FOR UPDATE`, id))
}

func (t *txn) AttachAppointment(ctx context.Context, slotID, appointmentID string) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE availabilities SET status = 'BOOKED', appointment_id = $2
		 WHERE id = $1 AND status = 'AVAILABLE'`, slotID, appointmentID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrConflict
	}
	return nil
}

func (s *Store) ListAvailability(ctx context.Context, advisorID string) ([]model.Availability, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+slotColumns+` FROM availabilities
		 WHERE advisor_id = $1 ORDER BY start_time`, advisorID)
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
