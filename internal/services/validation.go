package services

import (
	"fmt"
	"sync"

	"club_admin_backend/pkg/utils"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateStruct runs the struct tag rules and wraps failures in ErrValidation.
func validateStruct(v interface{}) error {
	if err := validatorInstance().Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, utils.ValidationDetails(err))
	}
	return nil
}
