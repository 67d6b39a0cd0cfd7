package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/lib/pq"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountNumberTaken = errors.New("account number already in use")
)

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type IUserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateKYCStatus(ctx context.Context, id int64, status model.KYCStatus) error
}

type IAccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]*model.Account, error)
}

type ITransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) error
	// ListByAccountNumbers returns transactions whose source or destination is
	// one of numbers, oldest first.
	ListByAccountNumbers(ctx context.Context, numbers []string) ([]*model.Transaction, error)
}

// Repositories groups the repositories bound to one handle (pool or transaction).
type Repositories struct {
	Users        IUserRepository
	Accounts     IAccountRepository
	Transactions ITransactionRepository
}

// Manager hands out repositories and runs units of work atomically.
// WithTx commits when fn returns nil and rolls back on error or panic.
type Manager interface {
	Repositories() Repositories
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

const (
	uniqueViolation         = "23505"
	foreignKeyViolation     = "23503"
	usersEmailConstraint    = "users_email_key"
	accountNumberConstraint = "accounts_account_number_key"
)

// mapPQError translates constraint violations the services care about into
// sentinel errors. A dangling foreign key means the referenced row is missing.
func mapPQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		switch pqErr.Constraint {
		case usersEmailConstraint:
			return ErrEmailTaken
		case accountNumberConstraint:
			return ErrAccountNumberTaken
		}
	case foreignKeyViolation:
		return ErrNotFound
	}
	return err
}
