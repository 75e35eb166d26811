package model

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	validatorpkg "github.com/go-playground/validator/v10"

	"github.com/dominicbrandes/aztec-exchange/internal/apperr"
)

var symbolPattern = regexp.MustCompile(`^[A-Z]+-[A-Z]+$`)

// Validator wraps go-playground/validator, registering the gateway's custom
// "symbol" tag and reporting failures keyed by JSON field name rather than
// Go struct field name, grounded on internal/validation.Validator in the
// source tree.
type Validator struct {
	v *validatorpkg.Validate
}

// NewValidator constructs a Validator with the gateway's custom tags
// registered.
func NewValidator() *Validator {
	v := validatorpkg.New()
	v.RegisterValidation("symbol", validateSymbol)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

func validateSymbol(fl validatorpkg.FieldLevel) bool {
	return symbolPattern.MatchString(fl.Field().String())
}

// ValidateStruct runs validation and, on the first failure, returns an
// apperr.Error carrying the JSON field path and a human-readable reason.
// Returns nil when i passes every tag.
func (val *Validator) ValidateStruct(i any) *apperr.Error {
	if err := val.v.Struct(i); err != nil {
		if verrs, ok := err.(validatorpkg.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return apperr.Validation(fe.Field(), reasonFor(fe))
		}
		return apperr.Validation("body", err.Error())
	}
	return nil
}

func reasonFor(fe validatorpkg.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "symbol":
		return "must match pattern ^[A-Z]+-[A-Z]+$"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
