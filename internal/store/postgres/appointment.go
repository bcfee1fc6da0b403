package postgres

import (
	"context"
	"time"

	"advisor-marketplace-api/internal/model"
)

const appointmentColumns = `id, founder_id, advisor_id, start_time, end_time,
	status, notes, completed_at, created_at, updated_at`

func scanAppointment(row interface{ Scan(...any) error }) (*model.Appointment, error) {
	a := &model.Appointment{}
	var status string
	err := row.Scan(&a.ID, &a.FounderID, &a.AdvisorID, &a.StartTime, &a.EndTime,
		&status, &a.Notes, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	a.Status = model.AppointmentStatus(status)
	return a, nil
}

func (t *txn) InsertAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := t.q.Exec(ctx,
		`INSERT INTO appointments (id, founder_id, advisor_id, start_time, end_time, status, notes, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)`,
		a.ID, a.FounderID, a.AdvisorID, a.StartTime, a.EndTime, string(a.Status), a.Notes, a.CreatedAt,
	)
	return mapErr(err)
}

// LockAppointment serializes concurrent transitions on one appointment: the
// second caller blocks here and then observes the first caller's status.
func (t *txn) LockAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	return scanAppointment(t.q.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 FOR UPDATE`, id))
}

func (t *txn) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := t.q.Exec(ctx,
		`UPDATE appointments
		 SET status = $2, notes = $3, completed_at = $4, updated_at = $5
		 WHERE id = $1`,
		a.ID, string(a.Status), a.Notes, a.CompletedAt, a.UpdatedAt,
	)
	return mapErr(err)
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	return scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
}

func (s *Store) ListAdvisorAppointments(ctx context.Context, advisorID string, status model.AppointmentStatus) ([]model.Appointment, error) {
	return s.listAppointments(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE advisor_id = $1 AND status = $2 ORDER BY start_time`, advisorID, string(status))
}

func (s *Store) ListFounderAppointments(ctx context.Context, founderID string) ([]model.Appointment, error) {
	return s.listAppointments(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE founder_id = $1 ORDER BY start_time`, founderID)
}

func (s *Store) listAppointments(ctx context.Context, q string, args ...any) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx, q, args...)
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

// CountCompleted counts the advisor's completed appointments whose completion
// time is at or after since. A zero since counts all of them.
func (s *Store) CountCompleted(ctx context.Context, advisorID string, since time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE advisor_id = $1 AND status = 'COMPLETED' AND completed_at >= $2`,
		advisorID, since,
	).Scan(&n)
	return n, mapErr(err)
}
