package utils

import "github.com/google/uuid"

// NewID returns a random UUID string for new entities.
func NewID() string {
	return uuid.NewString()
}
