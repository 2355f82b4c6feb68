package utils

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Ukrainian mobile number: +380XXXXXXXXX or 0XXXXXXXXX.
var uaPhonePattern = regexp.MustCompile(`^(?:\+380|0)\d{2}\d{3}\d{2}\d{2}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the project rules registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		RegisterRules(validate)
	})
	return validate
}

// RegisterRules adds the custom tags to v. Gin's binding engine is passed
// here too so `binding:"uaphone"` works on request structs.
func RegisterRules(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("uaphone", func(fl validator.FieldLevel) bool {
		return IsUAPhone(fl.Field().String())
	})
}

// IsUAPhone reports whether s is a Ukrainian phone number.
func IsUAPhone(s string) bool {
	return uaPhonePattern.MatchString(s)
}

// FieldPath strips the root struct name from a validator namespace:
// "PassengersInput.passengers[0].firstName" becomes "passengers[0].firstName".
func FieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
