package model

import "time"

type Role string

const (
	RoleFounder    Role = "FOUNDER"
	RoleAdvisor    Role = "ADVISOR"
	RoleAdmin      Role = "ADMIN"
	RoleUnassigned Role = "UNASSIGNED"
)

func (r Role) Valid() bool {
	switch r {
	case RoleFounder, RoleAdvisor, RoleAdmin, RoleUnassigned:
		return true
	}
	return false
}

type EntryType string

const (
	EntryCreditPurchase       EntryType = "CREDIT_PURCHASE"
	EntryAppointmentDeduction EntryType = "APPOINTMENT_DEDUCTION"
	// debit written when an operator settles a payout
	EntryPayout EntryType = "PAYOUT"
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotBooked    SlotStatus = "BOOKED"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

type PayoutStatus string

const (
	PayoutProcessing PayoutStatus = "PROCESSING"
	PayoutProcessed  PayoutStatus = "PROCESSED"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Credits      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LedgerEntry is immutable once written. PackageID is only set on
// CREDIT_PURCHASE entries and holds the plan tier that produced the grant.
type LedgerEntry struct {
	ID        string
	UserID    string
	Amount    int
	Type      EntryType
	PackageID string
	CreatedAt time.Time
}

type Availability struct {
	ID            string
	AdvisorID     string
	StartTime     time.Time
	EndTime       time.Time
	Status        SlotStatus
	AppointmentID string // empty until booked
	CreatedAt     time.Time
}

type Appointment struct {
	ID          string
	FounderID   string
	AdvisorID   string
	StartTime   time.Time
	EndTime     time.Time
	Status      AppointmentStatus
	Notes       string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Payout struct {
	ID          string
	AdvisorID   string
	Amount      int
	Credits     int
	PlatformFee int
	NetAmount   int
	PaypalEmail string
	Status      PayoutStatus
	ProcessedAt *time.Time
	CreatedAt   time.Time
}

type Earnings struct {
	TotalEarnings           int
	ThisMonthEarnings       int
	CompletedAppointments   int
	AverageEarningsPerMonth float64
	AvailableCredits        int
	AvailablePayout         int
}
