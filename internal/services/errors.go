package services

import (
	"errors"
	"fmt"

	"club_admin_backend/internal/store"
)

// --- Service Errors ---
var (
	ErrForbidden  = errors.New("operation not permitted for this user")
	ErrNotFound   = errors.New("requested record not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("record already exists")
)

// storeError maps entity store errors onto service errors.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrDuplicateID):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, store.ErrStoreClosed):
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	default:
		return err
	}
}
