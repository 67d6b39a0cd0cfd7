package repository

import (
	"context"

	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type TransactionRepository struct {
	DB DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"from_account": t.FromAccount,
		"to_account":   t.ToAccount,
		"amount":       t.Amount.String(),
	})
	log.Info("Executing query to create a new transaction")

	query := `INSERT INTO transactions (from_account, to_account, amount) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, t.FromAccount, t.ToAccount, t.Amount).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

func (r *TransactionRepository) ListByAccountNumbers(ctx context.Context, numbers []string) ([]*model.Transaction, error) {
	transactions := []*model.Transaction{}
	if len(numbers) == 0 {
		return transactions, nil
	}

	log := logger.Log.WithField("accounts", len(numbers))
	log.Debug("Executing query to get transactions by account numbers")

	query := `
		SELECT id, from_account, to_account, amount, created_at
		FROM transactions
		WHERE from_account = ANY($1) OR to_account = ANY($1)
		ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(numbers))
	if err != nil {
		log.WithError(err).Error("Failed to execute query for transactions by account numbers")
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.FromAccount, &t.ToAccount, &t.Amount, &t.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}
