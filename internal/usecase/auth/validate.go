package auth

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	domain "authjwt/backend/internal/domain/auth"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateRegistration(email, password, name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	}
	return nil
}
