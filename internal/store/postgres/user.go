package postgres

import (
	"context"

	"advisor-marketplace-api/internal/model"
)

const userColumns = `id, email, password_hash, name, role, credits, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.Credits, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	u.Role = model.Role(role)
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, credits, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$7)`,
		u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), u.Credits, u.CreatedAt,
	)
	return mapErr(err)
}

func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (t *txn) LockUser(ctx context.Context, id string) (*model.User, error) {
	return scanUser(t.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
}

// AdjustCredits relies on the users_credits_nonnegative check to reject
// overdrafts, so the guard holds even for callers that skipped LockUser.
func (t *txn) AdjustCredits(ctx context.Context, userID string, delta int) (int, error) {
	var credits int
	err := t.q.QueryRow(ctx,
		`UPDATE users SET credits = credits + $2, updated_at = NOW()
		 WHERE id = $1 RETURNING credits`, userID, delta,
	).Scan(&credits)
	if err != nil {
		return 0, mapErr(err)
	}
	return credits, nil
}
