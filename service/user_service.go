package service

import (
	"context"
	"errors"
	"time"

	"github.com/Mareeswari30/Smart-Banking/events"
	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/Mareeswari30/Smart-Banking/repository"
	"github.com/sirupsen/logrus"
)

// RegisterInput carries already-validated registration data. Documents are
// references returned by a storage.DocumentStore.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	MobileNumber *string
	Documents    []string
}

// UserService handles registration, lookup and KYC decisions.
type UserService struct {
	repos     repository.Manager
	hasher    *PasswordHasher
	publisher events.Publisher
}

func NewUserService(repos repository.Manager, hasher *PasswordHasher, publisher events.Publisher) *UserService {
	return &UserService{repos: repos, hasher: hasher, publisher: publisher}
}

// Register checks the password policy, hashes the password and stores the user
// with KYC status pending. The email check and insert share one transaction and
// the unique index on email catches concurrent registrations.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	log := logger.Log.WithField("email", in.Email)

	if err := CheckPasswordStrength(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, storageFailure(err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		MobileNumber: in.MobileNumber,
		Documents:    in.Documents,
		KYCStatus:    model.KYCPending,
	}

	err = s.repos.WithTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		_, err := repos.Users.GetByEmail(ctx, in.Email)
		switch {
		case err == nil:
			return ErrDuplicateEmail
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		return repos.Users.Create(ctx, user)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail), errors.Is(err, repository.ErrEmailTaken):
			log.Info("Registration rejected: email already registered")
			return nil, ErrDuplicateEmail
		default:
			return nil, storageFailure(err)
		}
	}

	log.WithField("user_id", user.ID).Info("User registered")
	events.PublishBestEffort(ctx, s.publisher, events.UserRegistered, events.UserRegisteredEvent{
		UserID:     user.ID,
		Email:      user.Email,
		Documents:  len(user.Documents),
		OccurredAt: user.CreatedAt,
	})
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repos.Repositories().Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageFailure(err)
	}
	return user, nil
}

// SetKYCStatus records an approve or reject decision for userID.
func (s *UserService) SetKYCStatus(ctx context.Context, userID int64, approve bool) (*model.User, error) {
	var (
		user     *model.User
		previous model.KYCStatus
		changed  bool
	)
	err := s.repos.WithTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		user, err = repos.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		previous = user.KYCStatus
		var next model.KYCStatus
		next, changed = NextKYCStatus(previous, approve)
		if !changed {
			return nil
		}
		if err := repos.Users.UpdateKYCStatus(ctx, userID, next); err != nil {
			return err
		}
		user.KYCStatus = next
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageFailure(err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"from":    previous,
		"to":      user.KYCStatus,
	}).Info("KYC decision recorded")

	if changed {
		events.PublishBestEffort(ctx, s.publisher, events.KYCStatusChanged, events.KYCStatusChangedEvent{
			UserID:     userID,
			From:       string(previous),
			To:         string(user.KYCStatus),
			OccurredAt: time.Now().UTC(),
		})
	}
	return user, nil
}
