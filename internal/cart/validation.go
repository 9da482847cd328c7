package cart

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(fmt.Errorf("register notblank: %w", err))
	}
	if err := v.RegisterValidation("nonnegative", nonNegative); err != nil {
		panic(fmt.Errorf("register nonnegative: %w", err))
	}
	// decimals reach validation as their sign so no amount is rounded through float64
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.Sign()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func nonNegative(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fl.Field().Int() >= 0
	default:
		return false
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// fieldErrors validates s and returns violations keyed by wire path, each prefixed with prefix.
func fieldErrors(s any, prefix string) (map[string]string, error) {
	err := validate.Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[prefix+fieldPath(fe.Namespace())] = messageFor(fe)
	}
	return out, nil
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "nonnegative":
		return "must be greater than or equal to 0"
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
