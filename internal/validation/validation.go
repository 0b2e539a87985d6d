// Package validation wraps go-playground/validator and turns the first
// failing rule into a readable error.
package validation

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is matched by every error this package returns
var ErrInvalid = errors.New("validation failed")

const (
	MsgFieldRequired = "Field is required"
	MsgNotNumeric    = "Field must be numeric"
	MsgBelowMin      = "Field is below minimum value"
	MsgNotAllowed    = "Field value is not allowed"
	MsgUnknown       = "Unknown validation error"
)

// Error describes the first invalid field
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message + ": " + e.Field
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

var global = New()

// New builds a validator with the custom rules registered
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("nonnegative", validateNonNegative)
	return v
}

// Validate checks a struct against its `validate` tags
func Validate(structure any) error {
	return parseValidationErrors(global.Struct(structure))
}

// Invalid builds an Error for checks that run after tag validation.
func Invalid(field, message string) error {
	return &Error{Field: field, Message: message}
}

// nonnegative accepts numeric strings whose value is >= 0
func validateNonNegative(fl validator.FieldLevel) bool {
	f, err := strconv.ParseFloat(fl.Field().String(), 64)
	return err == nil && f >= 0
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) || len(vErrors) == 0 {
		return err
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = MsgFieldRequired
	case "numeric", "number":
		msg = MsgNotNumeric
	case "min", "gt", "gte", "nonnegative":
		msg = MsgBelowMin
	case "oneof":
		msg = MsgNotAllowed
	default:
		msg = MsgUnknown
	}
	return &Error{Field: ve.Field(), Message: msg}
}
