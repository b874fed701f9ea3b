package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/cvportal/internal/pkg/validation"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the custom rules on gin's validator engine and reports
// field names by their json or form tag
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected validator engine")
			return
		}

		v.RegisterTagNameFunc(tagName)
		registerErr = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return validation.IsStrongPassword(fl.Field().String())
		})
	})
	return registerErr
}

func tagName(field reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}
