package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground/validator so handlers and the API
// client share one configured instance.
type CustomValidator struct {
	validate *validator.Validate
}

var (
	validatorOnce     sync.Once
	validatorInstance *CustomValidator
)

// GetValidator returns the process-wide validator.
func GetValidator() *CustomValidator {
	validatorOnce.Do(func() {
		validatorInstance = &CustomValidator{
			validate: validator.New(validator.WithRequiredStructEnabled()),
		}
	})
	return validatorInstance
}

// Validate checks struct tags on i and returns the first failure.
func (v *CustomValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
