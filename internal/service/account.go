package service

import (
	"context"
	"errors"
	"strings"

	"advisor-marketplace-api/internal/apperr"
	"advisor-marketplace-api/internal/auth"
	"advisor-marketplace-api/internal/ledger"
	"advisor-marketplace-api/internal/model"
	"advisor-marketplace-api/internal/store"
)

const minPasswordLen = 8

// Register creates an account with a zero balance. Only FOUNDER and ADVISOR
// may be self-selected; UNASSIGNED is used when role is empty.
func (s *Service) Register(ctx context.Context, email, password, name string, role model.Role) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || strings.TrimSpace(name) == "" {
		return nil, apperr.New(apperr.KindValidation, "all fields required")
	}
	if len(password) < minPasswordLen {
		return nil, apperr.New(apperr.KindValidation, "password too short")
	}
	if role == "" {
		role = model.RoleUnassigned
	}
	switch role {
	case model.RoleFounder, model.RoleAdvisor, model.RoleUnassigned:
	default:
		return nil, apperr.Newf(apperr.KindValidation, "role %q cannot be chosen at registration", role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	now := s.clock()
	u := &model.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		// don't reveal whether the email exists
		if errors.Is(err, store.ErrConflict) {
			return nil, apperr.New(apperr.KindConflict, "registration failed")
		}
		return nil, classify(err, "create user")
	}
	s.log.InfoContext(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// ErrBadCredentials is returned by Login for an unknown email and a wrong
// password alike.
var ErrBadCredentials = errors.New("invalid credentials")

// Login checks the password and returns the account.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.New(apperr.KindValidation, "email and password required")
	}
	u, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, classify(err, "user")
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

func (s *Service) GetAccount(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, classify(err, "user")
	}
	return u, nil
}

// ListLedger returns the user's ledger entries, newest first.
func (s *Service) ListLedger(ctx context.Context, userID string) ([]model.LedgerEntry, error) {
	out, err := s.store.ListLedger(ctx, userID)
	if err != nil {
		return nil, classify(err, "list ledger")
	}
	return out, nil
}

// Reconcile compares the stored balance with the sum of the user's ledger.
// A mismatch is logged at error level and reported, not repaired.
func (s *Service) Reconcile(ctx context.Context, userID string) (ledger.Reconciliation, error) {
	r, err := ledger.Reconcile(ctx, s.store, userID)
	if err != nil {
		return ledger.Reconciliation{}, classify(err, "user")
	}
	if !r.Balanced() {
		s.log.ErrorContext(ctx, "ledger and balance diverged",
			"user_id", userID, "credits", r.Credits, "ledger_sum", r.LedgerSum)
	}
	return r, nil
}

// EnsureAdmin creates the operator account on first start. An existing
// account with the same email is left as is.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.store.UserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	now := s.clock()
	err = s.store.CreateUser(ctx, &model.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Operator",
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, store.ErrConflict) {
		return nil
	}
	return err
}
