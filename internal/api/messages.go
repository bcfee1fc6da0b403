package api

import "time"

type Empty struct{}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	UserID  string `json:"userId"`
	Token   string `json:"token"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role"`
	Credits int    `json:"credits"`
	// Granted is set when the login triggered this month's credit grant.
	Granted bool `json:"granted,omitempty"`
}

type Account struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Credits int    `json:"credits"`
}

type AccountResponse struct {
	Account *Account `json:"account"`
}

type GrantMonthlyCreditsResponse struct {
	Granted bool     `json:"granted"`
	Account *Account `json:"account,omitempty"`
}

type Slot struct {
	ID            string    `json:"id"`
	AdvisorID     string    `json:"advisorId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
	AppointmentID string    `json:"appointmentId,omitempty"`
}

type PublishAvailabilityRequest struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type SlotResponse struct {
	Slot *Slot `json:"slot"`
}

type ListAvailabilityRequest struct {
	AdvisorID string `json:"advisorId"`
}

type ListAvailabilityResponse struct {
	Slots []*Slot `json:"slots"`
}

type Appointment struct {
	ID          string     `json:"id"`
	FounderID   string     `json:"founderId"`
	AdvisorID   string     `json:"advisorId"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     time.Time  `json:"endTime"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type BookSlotRequest struct {
	SlotID string `json:"slotId"`
}

// AppointmentRequest addresses a single appointment (cancel, complete).
type AppointmentRequest struct {
	AppointmentID string `json:"appointmentId"`
}

type AddNotesRequest struct {
	AppointmentID string `json:"appointmentId"`
	Notes         string `json:"notes"`
}

type AppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}

type Payout struct {
	ID          string     `json:"id"`
	AdvisorID   string     `json:"advisorId"`
	Amount      int        `json:"amount"`
	Credits     int        `json:"credits"`
	PlatformFee int        `json:"platformFee"`
	NetAmount   int        `json:"netAmount"`
	PaypalEmail string     `json:"paypalEmail"`
	Status      string     `json:"status"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type RequestPayoutRequest struct {
	PaypalEmail string `json:"paypalEmail"`
}

type ApprovePayoutRequest struct {
	PayoutID string `json:"payoutId"`
}

type PayoutResponse struct {
	Payout *Payout `json:"payout"`
}

type ListPayoutsResponse struct {
	Payouts []*Payout `json:"payouts"`
}

type EarningsResponse struct {
	TotalEarnings           int     `json:"totalEarnings"`
	ThisMonthEarnings       int     `json:"thisMonthEarnings"`
	CompletedAppointments   int     `json:"completedAppointments"`
	AverageEarningsPerMonth float64 `json:"averageEarningsPerMonth"`
	AvailableCredits        int     `json:"availableCredits"`
	AvailablePayout         int     `json:"availablePayout"`
}

type LedgerEntry struct {
	ID        string    `json:"id"`
	Amount    int       `json:"amount"`
	Type      string    `json:"type"`
	PackageID string    `json:"packageId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListLedgerResponse struct {
	Entries []*LedgerEntry `json:"entries"`
}

// ReconcileRequest targets the caller's own account when UserID is empty.
// Other accounts need the ADMIN role.
type ReconcileRequest struct {
	UserID string `json:"userId,omitempty"`
}

type ReconcileResponse struct {
	UserID    string `json:"userId"`
	Credits   int    `json:"credits"`
	LedgerSum int    `json:"ledgerSum"`
	Balanced  bool   `json:"balanced"`
}
