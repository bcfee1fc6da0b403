package sqlite

import (
	"context"
	"database/sql"
	"time"

	"advisor-marketplace-api/internal/model"
)

const appointmentColumns = `id, founder_id, advisor_id, start_time, end_time,
	status, notes, completed_at, created_at, updated_at`

func scanAppointment(row interface{ Scan(...any) error }) (*model.Appointment, error) {
	a := &model.Appointment{}
	var status string
	var start, end, created, updated int64
	var completed sql.NullInt64
	err := row.Scan(&a.ID, &a.FounderID, &a.AdvisorID, &start, &end,
		&status, &a.Notes, &completed, &created, &updated)
	if err != nil {
		return nil, mapErr(err)
	}
	a.StartTime = fromMillis(start)
	a.EndTime = fromMillis(end)
	a.Status = model.AppointmentStatus(status)
	a.CompletedAt = fromNullMillis(completed)
	a.CreatedAt = fromMillis(created)
	a.UpdatedAt = fromMillis(updated)
	return a, nil
}

func (t *txn) InsertAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := t.q.ExecContext(ctx,
		`INSERT INTO appointments (id, founder_id, advisor_id, start_time, end_time, status, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.FounderID, a.AdvisorID, toMillis(a.StartTime), toMillis(a.EndTime),
		string(a.Status), a.Notes, toMillis(a.CreatedAt), toMillis(a.CreatedAt),
	)
	return mapErr(err)
}

func (t *txn) LockAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	return scanAppointment(t.q.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id))
}

func (t *txn) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := t.q.ExecContext(ctx,
		`UPDATE appointments SET status = ?, notes = ?, completed_at = ?, updated_at = ?
		 WHERE id = ?`,
		string(a.Status), a.Notes, toNullMillis(a.CompletedAt), toMillis(a.UpdatedAt), a.ID,
	)
	return mapErr(err)
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	return scanAppointment(s.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id))
}

func (s *Store) ListAdvisorAppointments(ctx context.Context, advisorID string, status model.AppointmentStatus) ([]model.Appointment, error) {
	return s.listAppointments(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE advisor_id = ? AND status = ? ORDER BY start_time`, advisorID, string(status))
}

func (s *Store) ListFounderAppointments(ctx context.Context, founderID string) ([]model.Appointment, error) {
	return s.listAppointments(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE founder_id = ? ORDER BY start_time`, founderID)
}

func (s *Store) listAppointments(ctx context.Context, q string, args ...any) ([]model.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *Store) CountCompleted(ctx context.Context, advisorID string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE advisor_id = ? AND status = 'COMPLETED' AND completed_at >= ?`,
		advisorID, toMillis(since),
	).Scan(&n)
	return n, mapErr(err)
}
