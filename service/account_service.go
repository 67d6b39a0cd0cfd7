package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Mareeswari30/Smart-Banking/events"
	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/Mareeswari30/Smart-Banking/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// InitialDeposit is credited to every new account through a seed transaction.
var InitialDeposit = decimal.NewFromInt(500)

const maxAccountNumberAttempts = 3

// AccountService owns account creation and the dashboard view.
type AccountService struct {
	repos     repository.Manager
	cache     *dashboardCache
	publisher events.Publisher
	now       func() time.Time
	newNumber func(time.Time) string
}

// NewAccountService builds the service. cache may be nil to disable caching.
func NewAccountService(repos repository.Manager, cache ICacheClient, cacheTTL time.Duration, publisher events.Publisher) *AccountService {
	s := &AccountService{
		repos:     repos,
		publisher: publisher,
		now:       time.Now,
		newNumber: GenerateAccountNumber,
	}
	if cache != nil {
		s.cache = &dashboardCache{client: cache, ttl: cacheTTL}
	}
	return s
}

// GenerateAccountNumber returns ACCT-<unix seconds>-<1000..9999>.
func GenerateAccountNumber(now time.Time) string {
	return fmt.Sprintf("ACCT-%d-%d", now.Unix(), 1000+rand.IntN(9000))
}

// CreateAccount opens an account for userID with a 500 balance and writes the
// matching INITIAL_DEPOSIT transaction in the same database transaction.
// A taken account number is retried with a fresh one a bounded number of times.
func (s *AccountService) CreateAccount(ctx context.Context, userID int64, accountType string) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":  userID,
		"acc_type": accountType,
	})

	var (
		account *model.Account
		err     error
	)
	for attempt := 1; attempt <= maxAccountNumberAttempts; attempt++ {
		account, err = s.openAccount(ctx, userID, accountType)
		if !errors.Is(err, repository.ErrAccountNumberTaken) {
			break
		}
		log.WithField("attempt", attempt).Warn("Account number collision, retrying")
	}

	switch {
	case err == nil:
	case errors.Is(err, repository.ErrAccountNumberTaken):
		return nil, ErrAccountNumberCollision
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUserNotFound
	default:
		return nil, storageFailure(err)
	}

	s.cache.invalidate(ctx, userID)

	log.WithField("account_number", account.AccountNumber).Info("Account created")
	events.PublishBestEffort(ctx, s.publisher, events.AccountCreated, events.AccountCreatedEvent{
		AccountID:     account.ID,
		UserID:        userID,
		AccountNumber: account.AccountNumber,
		AccountType:   account.AccountType,
		OccurredAt:    account.CreatedAt,
	})
	return account, nil
}

func (s *AccountService) openAccount(ctx context.Context, userID int64, accountType string) (*model.Account, error) {
	account := &model.Account{
		UserID:        userID,
		AccountNumber: s.newNumber(s.now()),
		Balance:       InitialDeposit,
		AccountType:   accountType,
	}

	err := s.repos.WithTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		taken, err := repos.Accounts.ExistsByNumber(ctx, account.AccountNumber)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrAccountNumberTaken
		}
		if err := repos.Accounts.Create(ctx, account); err != nil {
			return err
		}
		return repos.Transactions.Create(ctx, &model.Transaction{
			FromAccount: model.InitialDepositSource,
			ToAccount:   account.AccountNumber,
			Amount:      InitialDeposit,
		})
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// ListForUser returns the user's accounts and every transaction whose source or
// destination is one of them, oldest first. Results are cached until the next
// account is created for the user.
func (s *AccountService) ListForUser(ctx context.Context, userID int64) (*model.Dashboard, error) {
	d, ver, ok := s.cache.get(ctx, userID)
	if ok {
		return d, nil
	}

	repos := s.repos.Repositories()
	accounts, err := repos.Accounts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, storageFailure(err)
	}

	numbers := make([]string, 0, len(accounts))
	for _, a := range accounts {
		numbers = append(numbers, a.AccountNumber)
	}
	transactions, err := repos.Transactions.ListByAccountNumbers(ctx, numbers)
	if err != nil {
		return nil, storageFailure(err)
	}

	d = &model.Dashboard{Accounts: accounts, Transactions: transactions}
	s.cache.set(ctx, userID, ver, d)
	return d, nil
}
