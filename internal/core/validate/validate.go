// Package validate wraps go-playground/validator behind a single Struct
// call that converts tag failures into a domain.ValidationError with
// human-readable per-field messages. Used by screens to check form input
// before it ever reaches the network.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/naai-app/naai/internal/core/domain"
)

var v = validator.New()

// Struct validates the tagged fields of i. On failure it returns a
// *domain.ValidationError listing every problem.
func Struct(i any) error {
	if err := v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			problems := make([]string, 0, len(ve))
			for _, fe := range ve {
				problems = append(problems, fieldError(fe))
			}
			return &domain.ValidationError{Problems: problems}
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "eqfield":
		if fe.Param() == "Password" {
			return "passwords do not match"
		}
		return fmt.Sprintf("%s must match %s", field, strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
