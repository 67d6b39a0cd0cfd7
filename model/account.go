package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account balances are stored independently of the transaction log and are
// not recomputed from it.
type Account struct {
	ID            int64
	UserID        int64
	AccountNumber string
	Balance       decimal.Decimal
	AccountType   string
	CreatedAt     time.Time
}

// InitialDepositSource marks the seed transaction written when an account opens.
const InitialDepositSource = "INITIAL_DEPOSIT"

type Transaction struct {
	ID          int64
	FromAccount string
	ToAccount   string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// Dashboard is a user's accounts plus every transaction touching one of them.
type Dashboard struct {
	Accounts     []*Account
	Transactions []*Transaction
}
