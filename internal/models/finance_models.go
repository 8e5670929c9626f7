package models

import "time"

// PaymentStatus distinguishes fully settled payments from partial ones.
type PaymentStatus string

const (
	PaymentFull    PaymentStatus = "FULL"
	PaymentPartial PaymentStatus = "PARTIAL"
)

// Payment is money received from a member or a trial.
type Payment struct {
	Base
	Amount        float64       `json:"amount" db:"amount" validate:"gt=0"`
	Date          time.Time     `json:"date" db:"date"`
	PaymentMethod string        `json:"paymentMethod" db:"payment_method" validate:"required"`
	Status        PaymentStatus `json:"status" db:"status" validate:"required,oneof=FULL PARTIAL"`
	PendingAmount float64       `json:"pendingAmount" db:"pending_amount" validate:"gte=0"`
	ClubID        string        `json:"clubId" db:"club_id" validate:"required"`
	MemberID      *string       `json:"memberId,omitempty" db:"member_id"`
	TrialID       *string       `json:"trialId,omitempty" db:"trial_id"`
}

// Expense is money spent by a club.
type Expense struct {
	Base
	Description string    `json:"description" db:"description" validate:"required"`
	Amount      float64   `json:"amount" db:"amount" validate:"gt=0"`
	Date        time.Time `json:"date" db:"date"`
	Category    string    `json:"category" db:"category" validate:"required"`
	ClubID      string    `json:"clubId" db:"club_id" validate:"required"`
}
