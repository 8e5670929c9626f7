package models

// SubscriptionPlan is a priced membership offering of a club.
type SubscriptionPlan struct {
	Base
	Name        string   `json:"name" db:"name" validate:"required"`
	Description string   `json:"description" db:"description"`
	Duration    int      `json:"duration" db:"duration" validate:"gt=0"` // days
	Price       float64  `json:"price" db:"price" validate:"gte=0"`
	Features    []string `json:"features" db:"features"`
	IsActive    bool     `json:"isActive" db:"is_active"`
	ClubID      string   `json:"clubId" db:"club_id" validate:"required"`
}
