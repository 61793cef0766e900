package validators

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

func EmailValidator(v *validator.Validate, e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	if err := v.Var(e, "email"); err != nil {
		return ErrEmailInvalid
	}

	return nil
}
