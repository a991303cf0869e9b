package users

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
)

var (
	ErrInvalidUser = errors.New("invalid user")

	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// NewUser is the registration payload.
type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (n *NewUser) Normalize() {
	n.Username = strings.TrimSpace(n.Username)
	n.Email = strings.TrimSpace(n.Email)
	n.FullName = strings.TrimSpace(n.FullName)
}

func (n *NewUser) Validate() error {
	if l := utf8.RuneCountInString(n.Username); l < MinUsernameLength || l > MaxUsernameLength {
		return fmt.Errorf("%w: username must be between %d and %d characters", ErrInvalidUser, MinUsernameLength, MaxUsernameLength)
	}
	if err := ValidatePassword(n.Password); err != nil {
		return err
	}
	if n.Email != "" && !emailRegex.MatchString(n.Email) {
		return fmt.Errorf("%w: invalid email address", ErrInvalidUser)
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidUser, MinPasswordLength)
	}
	return nil
}
