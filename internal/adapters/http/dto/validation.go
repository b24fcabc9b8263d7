package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation wraps struct-tag validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps JSON body or query string decoding failures.
	ErrBinding = errors.New("binding failed")
)

// Validator returns the shared validator. Field errors are reported under
// their JSON (or form) names, and the "notblank" tag is registered.
var Validator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(wireName)

	err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		panic(fmt.Sprintf("dto: registering notblank: %v", err))
	}

	return v
})

// wireName is the name a field has on the wire.
func wireName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")

		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}

	return fld.Name
}

// Validate runs the struct-tag rules on v.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	return bindThenValidate(c.ShouldBindJSON(v), v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	return bindThenValidate(c.ShouldBindQuery(v), v)
}

func bindThenValidate(bindErr error, v any) error {
	if bindErr != nil {
		return fmt.Errorf("%w: %w", ErrBinding, bindErr)
	}

	return Validate(v)
}

// ValidationErrors maps each failing field to a readable message.
// It returns an empty map for errors that carry no field failures.
func ValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return out
	}

	for _, fe := range fields {
		out[fe.Field()] = validationMessage(fe)
	}

	return out
}

// IsValidationError reports whether err carries field failures.
func IsValidationError(err error) bool {
	var fields validator.ValidationErrors

	return errors.As(err, &fields)
}

func validationMessage(fe validator.FieldError) string {
	p := fe.Param()

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "notblank":
		return "must not be blank"
	case "min", "max":
		return minMaxMessage(fe.Tag(), p, fe.Kind())
	case "gte":
		return "must be greater than or equal to " + p
	case "lte":
		return "must be less than or equal to " + p
	case "gt":
		return "must be greater than " + p
	case "lt":
		return "must be less than " + p
	case "oneof":
		return "must be one of: " + p
	default:
		return "failed validation: " + fe.Tag()
	}
}

// minMaxMessage counts characters for strings and compares values otherwise.
func minMaxMessage(tag, param string, kind reflect.Kind) string {
	bound := "at least "
	if tag == "max" {
		bound = "at most "
	}

	if kind == reflect.String {
		return "must be " + bound + param + " characters"
	}

	return "must be " + bound + param
}
