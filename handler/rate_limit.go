package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Mareeswari30/Smart-Banking/common"
	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/redis/go-redis/v9"
)

// RateLimitStore is the subset of *redis.Client used for counting attempts.
type RateLimitStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

const maxPeekBody = 1 << 20

// LoginRateLimit allows maxPerMin login attempts per email (or client IP when
// no email is present) per minute. A nil store disables the limit and Redis
// errors let the request through.
func LoginRateLimit(store RateLimitStore, maxPerMin int) func(http.Handler) http.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := loginSubject(r)
			key := "rl:login:" + subject

			cnt, err := store.Incr(r.Context(), key).Result()
			if err != nil {
				logger.Log.WithError(err).Warn("Login rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if cnt == 1 {
				// a counter without a TTL would lock the subject out for good
				if err := store.Expire(r.Context(), key, time.Minute).Err(); err != nil {
					logger.Log.WithError(err).WithField("subject", subject).Warn("Could not set login rate limit window")
					store.Del(r.Context(), key)
					next.ServeHTTP(w, r)
					return
				}
			}
			if cnt > int64(maxPerMin) {
				logger.Log.WithField("subject", subject).Warn("Login rate limit exceeded")
				w.Header().Set("Retry-After", "60")
				common.NewAppError(http.StatusTooManyRequests, "Too many login attempts, try again later", nil).Send(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// loginSubject peeks at the body for the login email and restores it for the
// handler. Falls back to the client IP.
func loginSubject(r *http.Request) string {
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBody))
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err == nil {
			if email := emailFromBody(r.Header.Get("Content-Type"), body); email != "" {
				return strings.ToLower(email)
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func emailFromBody(contentType string, body []byte) string {
	if strings.HasPrefix(contentType, "application/json") {
		var req struct {
			Email string `json:"email"`
		}
		if json.Unmarshal(body, &req) == nil {
			return strings.TrimSpace(req.Email)
		}
		return ""
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(values.Get("username"))
}
