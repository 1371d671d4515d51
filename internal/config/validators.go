package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator that reports fields by their label tag and
// knows the exclusive rule.
func newValidator() (*validator.Validate, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("exclusive", validateExclusive); err != nil {
		return nil, fmt.Errorf("registering exclusive validation: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return validate, nil
}

// validateExclusive fails when both the field and the one named by the
// parameter hold a non-empty string.
func validateExclusive(fl validator.FieldLevel) bool {
	field := fl.Field()
	other := fl.Parent().FieldByName(fl.Param())

	if !field.IsValid() || !other.IsValid() {
		return true
	}

	if field.Kind() != reflect.String || other.Kind() != reflect.String {
		return true
	}

	return field.String() == "" || other.String() == ""
}

// describe turns validation failures into one readable error per field.
func describe(errs validator.ValidationErrors) error {
	messages := make([]error, 0, len(errs))

	for _, fe := range errs {
		messages = append(messages, errors.New(message(fe)))
	}

	return errors.Join(messages...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "exclusive":
		return fmt.Sprintf("%s is mutually exclusive with %s", fe.Field(), other(fe))
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("at least %s %s required", fe.Param(), fe.Field())
		}

		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "file":
		return fmt.Sprintf("%s %q is not a readable file", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag())
	}
}

// other names the partner field of an exclusive rule by its flag.
func other(fe validator.FieldError) string {
	return "--" + strings.ToLower(strings.Join(splitCamel(fe.Param()), "-"))
}

func splitCamel(name string) []string {
	var (
		parts []string
		start int
	)

	for i := 1; i < len(name); i++ {
		if name[i] >= 'A' && name[i] <= 'Z' {
			parts = append(parts, name[start:i])
			start = i
		}
	}

	return append(parts, name[start:])
}
