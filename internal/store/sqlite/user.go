package sqlite

import (
	"context"
	"time"

	"advisor-marketplace-api/internal/model"
)

const userColumns = `id, email, password_hash, name, role, credits, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	var role string
	var created, updated int64
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.Credits, &created, &updated); err != nil {
		return nil, mapErr(err)
	}
	u.Role = model.Role(role)
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, credits, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), u.Credits,
		toMillis(u.CreatedAt), toMillis(u.CreatedAt),
	)
	return mapErr(err)
}

func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// LockUser is a plain read: the immediate transaction already holds the
// database write lock.
func (t *txn) LockUser(ctx context.Context, id string) (*model.User, error) {
	return scanUser(t.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (t *txn) AdjustCredits(ctx context.Context, userID string, delta int) (int, error) {
	var credits int
	err := t.q.QueryRowContext(ctx,
		`UPDATE users SET credits = credits + ?, updated_at = ?
		 WHERE id = ? RETURNING credits`, delta, toMillis(time.Now()), userID,
	).Scan(&credits)
	if err != nil {
		return 0, mapErr(err)
	}
	return credits, nil
}
