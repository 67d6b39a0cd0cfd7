package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Email  string `json:"email" validate:"required,email"`
	UserID string `json:"user_id" validate:"required,numeric"`
}

func TestValidateAndDecode(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","user_id":"7"}`))
		var p samplePayload
		assert.Nil(t, ValidateAndDecode(r, &p))
		assert.Equal(t, "7", p.UserID)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		var p samplePayload
		appErr := ValidateAndDecode(r, &p)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Equal(t, "Invalid request body", appErr.Message)
	})

	t.Run("validation failure", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","user_id":"abc"}`))
		var p samplePayload
		appErr := ValidateAndDecode(r, &p)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Equal(t, "email must be a valid email address; user_id must be numeric", appErr.Message)
	})
}

func TestAppError_Send(t *testing.T) {
	rr := httptest.NewRecorder()
	NewAppError(http.StatusForbidden, "Not authorized", assert.AnError).Send(rr)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"code":403,"detail":"Not authorized"}`, rr.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
}
