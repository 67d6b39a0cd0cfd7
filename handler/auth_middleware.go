package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/Mareeswari30/Smart-Banking/common"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	requestIDKey contextKey = "requestID"
)

// AdminKeyHeader carries the operator key for KYC decisions.
const AdminKeyHeader = "X-Admin-Key"

// TokenVerifier resolves a bearer token to the authenticated user id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	common.NewAppError(http.StatusUnauthorized, message, nil).Send(w)
}

func AuthMiddleware(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Not authenticated")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				unauthorized(w, "Invalid authorization header format")
				return
			}

			userID, err := tokens.Verify(strings.TrimSpace(token))
			if err != nil {
				unauthorized(w, "Could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminKeyMiddleware guards operator endpoints with a shared key. An empty key
// disables the check.
func AdminKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AdminKeyHeader)
			if provided == "" {
				common.NewAppError(http.StatusUnauthorized, "Admin key required", nil).Send(w)
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				common.NewAppError(http.StatusForbidden, "Access denied. Admin privileges required.", nil).Send(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// pathUserID parses the {userId} path segment.
func pathUserID(r *http.Request) (int64, *common.AppError) {
	id, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid user id", nil)
	}
	return id, nil
}
