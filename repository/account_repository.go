package repository

import (
	"context"

	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/sirupsen/logrus"
)

type AccountRepository struct {
	DB DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{DB: db}
}

// Create adds a new account with the balance set by the caller.
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":        account.UserID,
		"account_number": account.AccountNumber,
		"acc_type":       account.AccountType,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (user_id, account_number, balance, acc_type) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, account.UserID, account.AccountNumber, account.Balance, account.AccountType).
		Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create account query")
		return mapPQError(err)
	}
	return nil
}

func (r *AccountRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`, number).Scan(&exists)
	if err != nil {
		logger.Log.WithError(err).WithField("account_number", number).Error("Failed to check account number")
		return false, err
	}
	return exists, nil
}

// ListByUserID retrieves all accounts for a specific user in creation order.
func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*model.Account, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Debug("Executing query to get accounts by user ID")

	query := `SELECT id, user_id, account_number, balance, acc_type, created_at FROM accounts WHERE user_id = $1 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for accounts by user ID")
		return nil, err
	}
	defer rows.Close()

	accounts := []*model.Account{}
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.AccountNumber, &acc.Balance, &acc.AccountType, &acc.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}
