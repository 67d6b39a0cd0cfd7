package service

import (
	"strings"

	"github.com/Mareeswari30/Smart-Banking/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordMinLength = 8
	// bcrypt ignores everything past 72 bytes.
	passwordMaxLength = 72
	passwordSymbols   = "@$!%*#?&"
)

var ErrPasswordTooLong = &ValidationError{
	Field:   "password",
	Message: "Password must be at most 72 characters.",
}

// CheckPasswordStrength enforces the registration policy: at least 8 characters
// with a lowercase letter, an uppercase letter, a digit and one of @$!%*#?&,
// and nothing outside those classes.
func CheckPasswordStrength(password string) error {
	if len(password) < passwordMinLength {
		return ErrWeakPassword
	}
	if len(password) > passwordMaxLength {
		return ErrPasswordTooLong
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return ErrWeakPassword
		}
	}
	if !lower || !upper || !digit || !symbol {
		return ErrWeakPassword
	}
	return nil
}

// PasswordHasher wraps bcrypt with a configurable cost.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether password matches hash. A malformed hash is a mismatch.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
