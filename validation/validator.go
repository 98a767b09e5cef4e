// Package validation validates request structs with go-playground/validator
// and converts failures into field-level errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gaborage/todo-bricks/database/statement"
)

const tagColorTag = "tagcolor"

// tag colors are #rgb or #rrggbb
var tagColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validator wraps go-playground/validator with the custom rules of the todo domain.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with custom validation rules registered.
// Field names in errors use the json tag when present.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		default:
			return name
		}
	})

	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation(tagColorTag, validateTagColor)

	// Set patches are validated as their value; NoOp and Remove validate as
	// empty so rules guarded by omitempty are skipped.
	v.RegisterCustomTypeFunc(patchValue[string], statement.Patch[string]{})
	v.RegisterCustomTypeFunc(patchValue[uuid.UUID], statement.Patch[uuid.UUID]{})

	return &Validator{validate: v}
}

// Engine returns the underlying validator instance.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Validate validates a struct. Field failures are returned as *ValidationError;
// other failures (e.g. a non-struct argument) are returned unchanged.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError(validationErrors)
		}
		return err
	}
	return nil
}

// ValidationError wraps validation errors with readable messages.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// NewValidationError creates a ValidationError from go-playground/validator errors.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fieldErrors := make([]FieldError, 0, len(errs))

	for _, err := range errs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   err.Field(),
			Message: getErrorMessage(err),
			Value:   fmt.Sprintf("%v", err.Value()),
		})
	}

	return &ValidationError{Errors: fieldErrors}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)
	default:
		return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
	}
}

// Fields returns the failing field names with their messages.
func (ve *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(ve.Errors))
	for _, fe := range ve.Errors {
		out[fe.Field] = fe.Message
	}
	return out
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case tagColorTag:
		return fmt.Sprintf("%s must be a hex color like #a1b2c3", fe.Field())
	default:
		return fmt.Sprintf("%s failed validation", fe.Field())
	}
}

func patchValue[T any](field reflect.Value) any {
	p, ok := field.Interface().(statement.Patch[T])
	if !ok {
		return nil
	}
	if v, set := p.Get(); set {
		return v
	}
	return nil
}

func validateTagColor(fl validator.FieldLevel) bool {
	return tagColorPattern.MatchString(fl.Field().String())
}
