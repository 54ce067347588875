// internal/app/system/inputval/inputval.go
package inputval

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/bridgeofhope/bridgehub/internal/domain/models"
)

// ValidationError reports a rejected input field. It is safe to show
// the message to the end user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErr(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidEmail reports whether s parses as a bare RFC 5322 address
// (no display name) of sane length.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}

// ValidateEmail returns a field error when the address is unusable.
func ValidateEmail(s string) error {
	if !IsValidEmail(s) {
		return fieldErr("email", "enter a valid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password length for
// password-method accounts.
func ValidatePassword(s string) error {
	if utf8.RuneCountInString(s) < 8 {
		return fieldErr("password", "password must be at least 8 characters")
	}
	if len(s) > 128 {
		return fieldErr("password", "password is too long")
	}
	return nil
}

// IsValidAuthMethod reports whether s names a supported sign-in method.
func IsValidAuthMethod(s string) bool {
	switch s {
	case "password", "google":
		return true
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateSponsorID enforces the 8-digit sponsor identifier format.
// Leading zeros are significant, so the value stays a string.
func ValidateSponsorID(s string) error {
	if len(s) != 8 || !isDigits(s) {
		return fieldErr("sponsor_id", "sponsor ID must be exactly 8 digits")
	}
	return nil
}

// ValidateChildID enforces the 10-digit child identifier format.
func ValidateChildID(s string) error {
	if len(s) != 10 || !isDigits(s) {
		return fieldErr("child_id", "child ID must be exactly 10 digits")
	}
	return nil
}

// ValidateCenterID enforces the 8-digit Bridge of Hope center
// identifier format.
func ValidateCenterID(s string) error {
	if len(s) != 8 || !isDigits(s) {
		return fieldErr("center_id", "center ID must be exactly 8 digits")
	}
	return nil
}

// ValidateMessageText enforces the non-empty, capped-length rule for
// sponsorship messages. The cap counts characters, not bytes.
func ValidateMessageText(s string) error {
	if strings.TrimSpace(s) == "" {
		return fieldErr("message_text", "message cannot be empty")
	}
	if utf8.RuneCountInString(s) > models.MaxMessageLength {
		return fieldErr("message_text",
			fmt.Sprintf("message cannot exceed %d characters", models.MaxMessageLength))
	}
	return nil
}

// ValidateRoles checks a registration's requested role names and
// returns the parsed set. At least one role is required.
func ValidateRoles(names []string) (models.RoleSet, error) {
	if len(names) == 0 {
		return nil, fieldErr("roles", "select at least one role")
	}
	var set models.RoleSet
	for _, n := range names {
		r, ok := models.ParseRole(strings.TrimSpace(n))
		if !ok {
			return nil, fieldErr("roles", fmt.Sprintf("unknown role %q", n))
		}
		if !set.Has(r) {
			set = append(set, r)
		}
	}
	return set, nil
}
