package models

// Club is one physical wellness location.
type Club struct {
	Base
	Name          string   `json:"name" db:"name" validate:"required"`
	Location      string   `json:"location" db:"location"`
	Address       string   `json:"address" db:"address"`
	ContactNumber string   `json:"contactNumber" db:"contact_number"`
	Phone         string   `json:"phone" db:"phone"`
	Email         string   `json:"email" db:"email" validate:"omitempty,email"`
	AdminID       string   `json:"adminId" db:"admin_id"`
	AdminIDs      []string `json:"adminIds,omitempty" db:"admin_ids"`
}
