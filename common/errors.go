package common

import (
	"net/http"

	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/sirupsen/logrus"
)

// AppError is the single error shape returned to HTTP clients.
// Err carries the internal cause; it is logged and never serialized.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"detail"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		entry := logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		})
		if e.Code >= http.StatusInternalServerError {
			entry.Error(e.Message)
		} else {
			entry.Warn(e.Message)
		}
	}

	WriteJSON(w, e.Code, e)
}
