// Package store declares the persistence contract shared by the postgres and
// sqlite backends. Every mutation that touches more than one row runs inside
// WithAtomic; reads outside a transaction go through Reader.
package store

import (
	"context"
	"errors"
	"time"

	"advisor-marketplace-api/internal/model"
)

var (
	ErrNotFound = errors.New("store: not found")
	// ErrConflict reports a unique constraint violation.
	ErrConflict = errors.New("store: conflict")
	// ErrNegativeBalance reports that a credit adjustment was rejected by the
	// credits >= 0 check.
	ErrNegativeBalance = errors.New("store: balance would go negative")
)

type Store interface {
	Reader
	// WithAtomic runs fn in one transaction. The transaction commits only if
	// fn returns nil; any error rolls back every write made through tx.
	WithAtomic(ctx context.Context, fn func(tx Tx) error) error
	CreateUser(ctx context.Context, u *model.User) error
	Ping(ctx context.Context) error
	Close()
}

type Reader interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)

	ListLedger(ctx context.Context, userID string) ([]model.LedgerEntry, error)
	SumLedger(ctx context.Context, userID string) (int, error)

	ListAvailability(ctx context.Context, advisorID string) ([]model.Availability, error)

	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	ListAdvisorAppointments(ctx context.Context, advisorID string, status model.AppointmentStatus) ([]model.Appointment, error)
	ListFounderAppointments(ctx context.Context, founderID string) ([]model.Appointment, error)
	CountCompleted(ctx context.Context, advisorID string, since time.Time) (int, error)

	GetPayout(ctx context.Context, id string) (*model.Payout, error)
	ListPayouts(ctx context.Context, advisorID string) ([]model.Payout, error)
	ListPayoutsByStatus(ctx context.Context, status model.PayoutStatus) ([]model.Payout, error)
}

// Tx is the write surface available inside WithAtomic. Lock* methods take a
// row lock (SELECT ... FOR UPDATE on postgres) held until the transaction ends.
type Tx interface {
	LockUser(ctx context.Context, id string) (*model.User, error)
	// AdjustCredits adds delta to the user's credits and returns the new balance.
	AdjustCredits(ctx context.Context, userID string, delta int) (int, error)
	AppendLedger(ctx context.Context, e *model.LedgerEntry) error
	LatestLedger(ctx context.Context, userID string, typ model.EntryType) (*model.LedgerEntry, error)

	DeleteOpenSlots(ctx context.Context, advisorID string) (int64, error)
	InsertSlot(ctx context.Context, a *model.Availability) error
	LockSlot(ctx context.Context, id string) (*model.Availability, error)
	AttachAppointment(ctx context.Context, slotID, appointmentID string) error

	InsertAppointment(ctx context.Context, a *model.Appointment) error
	LockAppointment(ctx context.Context, id string) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, a *model.Appointment) error

	ProcessingPayout(ctx context.Context, advisorID string) (*model.Payout, error)
	InsertPayout(ctx context.Context, p *model.Payout) error
	LockPayout(ctx context.Context, id string) (*model.Payout, error)
	MarkPayoutProcessed(ctx context.Context, id string, at time.Time) error
}
