package service

import (
	"context"
	"errors"
	"time"

	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/Mareeswari30/Smart-Banking/repository"
)

// AuthService exchanges credentials for access tokens.
type AuthService struct {
	repos  repository.Manager
	hasher *PasswordHasher
	tokens *TokenService
	ttl    time.Duration
	// dummyHash is compared against when the email is unknown so both failure
	// paths cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(repos repository.Manager, hasher *PasswordHasher, tokens *TokenService, ttl time.Duration) *AuthService {
	dummy, err := hasher.Hash("unused-Passw0rd!")
	if err != nil {
		logger.Log.WithError(err).Warn("Could not prepare dummy hash")
	}
	return &AuthService{repos: repos, hasher: hasher, tokens: tokens, ttl: ttl, dummyHash: dummy}
}

// Login returns ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.AccessToken, error) {
	user, err := s.repos.Repositories().Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return model.AccessToken{}, ErrInvalidCredentials
		}
		return model.AccessToken{}, storageFailure(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		logger.Log.WithField("user_id", user.ID).Info("Login rejected: wrong password")
		return model.AccessToken{}, ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID, s.ttl)
}
