package engine

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var objectNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("object_name", func(field validator.FieldLevel) bool {
		return objectNameRegex.MatchString(field.Field().String())
	}); err != nil {
		panic(err)
	}

	return validate
}

// Validate checks `validate` struct tags of command options. Supported custom tags:
// * object_name - a valid volume/network name.
func Validate(options any) error {
	if err := validate.Struct(options); err != nil {
		return &ArgumentError{Err: err}
	}
	return nil
}
