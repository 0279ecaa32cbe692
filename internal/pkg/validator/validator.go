// Package validator wraps go-playground/validator so request structs and
// configuration can be checked declaratively through `validate` tags.
// Failures are reported as a single joined error rooted at ErrValidationFailed.
package validator

import (
	"errors"
	"fmt"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is the first error in the chain returned on failure.
var ErrValidationFailed = errors.New("validation failed")

var validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())

// errStringFormat renders one field failure, e.g.
// "'Address': value '0x12' does not meet the requirements for the 'eth_addr' validation".
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, fieldErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat, fieldErr.Field(), fieldErr.Value(), fieldErr.Tag()))
	}

	return errors.Join(errs...)
}

// Validate checks v against its `validate` struct tags.
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}

// Var checks a single value against a tag expression such as "required,eth_addr".
func Var(value any, tag string) error {
	if err := validator.Var(value, tag); err != nil {
		return formatError(err)
	}

	return nil
}
