package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// User is an account that can authenticate and own travel orders.
// PasswordHash is a bcrypt hash and never leaves the service layer.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	IsAdmin              bool
}

// Normalize trims name and lowercases email.
func (in RegisterInput) Normalize() RegisterInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return in
}

// Validate enforces registration rules. Call Normalize first.
func (in RegisterInput) Validate() error {
	if err := requireText("name", in.Name); err != nil {
		return err
	}
	if err := requireText("email", in.Email); err != nil {
		return err
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return NewValidationError("email", ReasonInvalid)
	}
	if in.Password == "" {
		return NewValidationError("password", ReasonRequired)
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return NewValidationError("password", ReasonTooShort)
	}
	if in.Password != in.PasswordConfirmation {
		return NewValidationError("password_confirmation", ReasonMismatch)
	}
	return nil
}
