package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies HS256 access tokens whose subject is the user id.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, opts ...TokenOption) *TokenService {
	s := &TokenService{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for subject valid for ttl. A zero ttl yields a token that
// is already expired.
func (s *TokenService) Issue(subject int64, ttl time.Duration) (model.AccessToken, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := model.AppClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subject, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", subject).Error("Failed to sign JWT")
		return model.AccessToken{}, fmt.Errorf("failed to sign token string: %w", err)
	}

	return model.AccessToken{Value: signed, Subject: subject, ExpiresAt: expiresAt}, nil
}

// Verify returns the subject of a valid token. Bad signatures, other algorithms,
// malformed or non-numeric subjects and expired tokens all yield ErrInvalidToken.
func (s *TokenService) Verify(token string) (int64, error) {
	var claims model.AppClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subject <= 0 {
		return 0, ErrInvalidToken
	}
	return subject, nil
}

// Authorize allows an operation on requested only when it is the authenticated subject.
func Authorize(subject, requested int64) error {
	if subject != requested {
		return ErrForbidden
	}
	return nil
}
