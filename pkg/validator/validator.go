package validator

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var global *validator.Validate

const (
	ErrInvalidFormat      = "invalid format"
	ErrFieldRequired      = "field is required"
	ErrFieldExceedsMaxLen = "field exceeds maximum length"
	ErrFieldBelowMinLen   = "field is below minimum length"
	ErrFieldBelowMinVal   = "field is below minimum value"
	ErrInvalidChoice      = "value is not one of the allowed choices"
	ErrInvalidUUID        = "must be a valid uuid"
	ErrUnknownValidation  = "invalid value"
)

func init() {
	SetValidator(New())
}

// New builds a validator that reports fields by their json names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return lowerFirst(f.Name)
		}
		return name
	})
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

// Validate checks structure and returns FieldErrors describing every
// failing field, or nil.
func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

// FieldErrors maps json field names to a readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// Details returns the field map when err carries validation failures.
func Details(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) {
		return err
	}
	out := make(FieldErrors, len(vErrors))
	for _, ve := range vErrors {
		out[ve.Field()] = message(ve)
	}
	return out
}

func message(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return ErrFieldRequired
	case "max":
		return ErrFieldExceedsMaxLen
	case "min":
		if ve.Kind().String() == "string" || ve.Kind().String() == "slice" {
			return ErrFieldBelowMinLen
		}
		return ErrFieldBelowMinVal
	case "gte", "gt":
		return ErrFieldBelowMinVal
	case "oneof":
		return ErrInvalidChoice + " (" + ve.Param() + ")"
	case "uuid", "uuid4":
		return ErrInvalidUUID
	case "url", "datetime":
		return ErrInvalidFormat
	default:
		return ErrUnknownValidation
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
