package services

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/clubevent/internal/common"
)

const minPasswordLength = 6

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func validEmail(email string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil || !strings.Contains(email, "@") {
		return invalid("valid email is required")
	}
	return nil
}

func validPassword(password string) error {
	if len(password) < minPasswordLength {
		return invalid("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
