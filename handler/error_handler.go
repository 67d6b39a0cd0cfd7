package handler

import (
	"errors"
	"net/http"

	"github.com/Mareeswari30/Smart-Banking/common"
	"github.com/Mareeswari30/Smart-Banking/service"
	"github.com/Mareeswari30/Smart-Banking/storage"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// mapServiceError converts service and storage errors into client responses.
// Anything unrecognised becomes a 500 with fallback as the message; the cause
// is only logged.
func mapServiceError(err error, fallback string) *common.AppError {
	var (
		validationErr *service.ValidationError
		uploadErr     *storage.ValidationError
	)
	switch {
	case errors.As(err, &validationErr):
		return common.NewAppError(http.StatusBadRequest, validationErr.Message, nil)
	case errors.As(err, &uploadErr):
		return common.NewAppError(http.StatusBadRequest, uploadErr.Message, nil)
	case errors.Is(err, service.ErrDuplicateEmail):
		return common.NewAppError(http.StatusBadRequest, "Email already registered", nil)
	case errors.Is(err, service.ErrUserNotFound):
		return common.NewAppError(http.StatusNotFound, "User not found", nil)
	case errors.Is(err, service.ErrForbidden):
		return common.NewAppError(http.StatusForbidden, "Not authorized", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return common.NewAppError(http.StatusBadRequest, "Incorrect email or password", nil)
	case errors.Is(err, service.ErrInvalidToken):
		return common.NewAppError(http.StatusUnauthorized, "Could not validate credentials", nil)
	case errors.Is(err, service.ErrAccountNumberCollision):
		return common.NewAppError(http.StatusConflict, "Could not allocate an account number, please retry", err)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}
