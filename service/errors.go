package service

import "errors"

var (
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrUserNotFound           = errors.New("user not found")
	ErrForbidden              = errors.New("not authorized")
	ErrInvalidCredentials     = errors.New("incorrect email or password")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrAccountNumberCollision = errors.New("could not allocate a unique account number")
	// ErrStorageFailure wraps unexpected persistence errors; the cause is kept for logging.
	ErrStorageFailure = errors.New("storage failure")
)

// ValidationError is returned for input the caller can correct.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var ErrWeakPassword = &ValidationError{
	Field: "password",
	Message: "Password must contain at least 8 characters, including one uppercase letter, " +
		"one lowercase letter, one number, and one special character.",
}

func storageFailure(err error) error {
	return errors.Join(ErrStorageFailure, err)
}
