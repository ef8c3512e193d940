package api

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"

	"github.com/go-playground/validator/v10"
)

var phoneFormat = regexp.MustCompile(`^\d{9}$`)

// validatePhone проверяет формат номера телефона: ровно 9 цифр, без кода страны.
func validatePhone(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return phoneFormat.MatchString(str)
}

func registerValidators() error {
	v, _ := binding.Validator.Engine().(*validator.Validate)
	if err := v.RegisterValidation("phone", validatePhone); err != nil {
		return fmt.Errorf("validator registration: %s", err.Error())
	}
	return nil
}
