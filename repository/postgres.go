package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresManager implements Manager on top of a lib/pq connection pool.
type PostgresManager struct {
	db *sql.DB
}

func NewPostgresManager(db *sql.DB) *PostgresManager {
	return &PostgresManager{db: db}
}

func (m *PostgresManager) Repositories() Repositories {
	return bind(m.db)
}

func (m *PostgresManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("could not commit transaction: %w", cerr)
		}
	}()

	return fn(ctx, bind(tx))
}

func bind(db DBTX) Repositories {
	return Repositories{
		Users:        NewUserRepository(db),
		Accounts:     NewAccountRepository(db),
		Transactions: NewTransactionRepository(db),
	}
}
