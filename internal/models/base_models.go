package models

import "time"

// Base carries the identity and audit timestamps shared by every entity.
type Base struct {
	ID        string    `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Meta exposes the embedded Base so generic code can stamp ids and timestamps.
func (b *Base) Meta() *Base { return b }
