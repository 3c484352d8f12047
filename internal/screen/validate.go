package screen

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// check validates form and returns the message for the first failing rule,
// or "" when the form is valid. messages is keyed by "Field.tag" first and
// then by "tag".
func check(form any, messages map[string]string) string {
	err := validate.Struct(form)
	if err == nil {
		return ""
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	for _, fe := range fieldErrs {
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return msg
		}
		if msg, ok := messages[fe.Tag()]; ok {
			return msg
		}
	}
	return fieldErrs[0].Error()
}

type loginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type registerForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required,min=6"`
}

type reportForm struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Image       string `validate:"required"`
	Points      int    `validate:"gt=0"`
	Index       int    `validate:"gte=0,ltfield=Points"`
}

type profileForm struct {
	Name string `validate:"required"`
}

type commentForm struct {
	Comment string `validate:"required"`
}
