// Package validate wraps go-playground/validator with the storefront's
// custom tags and turns failures into VALIDATION_ERROR responses keyed by
// JSON field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
)

var (
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	mustRegister(v, "pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %s: %v", tag, err))
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// Struct validates v. On failure it returns a VALIDATION_ERROR with message
// and a field to reason map as details.
func Struct(v any, message string) error {
	err := engine.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = reason(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid":
		return "must be a valid id"
	case "pincode":
		return "must be a 6 digit PIN code"
	case "phone":
		return "must be 10 to 15 digits"
	}
	return "is invalid"
}
