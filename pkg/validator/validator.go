package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report json field names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("hexcolor", func(fl validator.FieldLevel) bool {
		return IsHexColor(fl.Field().String())
	})
}

// IsHexColor reports whether color has the form #RRGGBB
func IsHexColor(color string) bool {
	if len(color) != 7 || color[0] != '#' {
		return false
	}
	for _, char := range color[1:] {
		if !((char >= '0' && char <= '9') || (char >= 'a' && char <= 'f') || (char >= 'A' && char <= 'F')) {
			return false
		}
	}
	return true
}

// ValidateStruct runs the struct tag rules against s
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator returns the shared validator instance
func GetValidator() *validator.Validate {
	return validate
}
