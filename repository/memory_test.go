package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryManager_Users(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()
	users := m.Repositories().Users

	u := &model.User{Name: "Alice", Email: "alice@x.com", PasswordHash: "h", KYCStatus: model.KYCPending}
	require.NoError(t, users.Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)

	assert.ErrorIs(t, users.Create(ctx, &model.User{Email: "alice@x.com"}), ErrEmailTaken)

	got, err := users.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = users.GetByEmail(ctx, "ALICE@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, users.UpdateKYCStatus(ctx, 1, model.KYCApproved))
	got, err = users.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.KYCApproved, got.KYCStatus)

	assert.ErrorIs(t, users.UpdateKYCStatus(ctx, 5, model.KYCApproved), ErrNotFound)
}

func TestMemoryManager_WithTxRollsBack(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()
	require.NoError(t, m.Repositories().Users.Create(ctx, &model.User{Email: "a@x.com"}))

	boom := errors.New("seed insert failed")
	err := m.WithTx(ctx, func(ctx context.Context, repos Repositories) error {
		acc := &model.Account{UserID: 1, AccountNumber: "ACCT-1-1000", Balance: decimal.NewFromInt(500)}
		if err := repos.Accounts.Create(ctx, acc); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := m.Repositories().Accounts.ExistsByNumber(ctx, "ACCT-1-1000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryManager_Ledger(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()
	repos := m.Repositories()
	require.NoError(t, repos.Users.Create(ctx, &model.User{Email: "a@x.com"}))
	require.NoError(t, repos.Users.Create(ctx, &model.User{Email: "b@x.com"}))

	assert.ErrorIs(t, repos.Accounts.Create(ctx, &model.Account{UserID: 9, AccountNumber: "X"}), ErrNotFound)

	require.NoError(t, repos.Accounts.Create(ctx, &model.Account{UserID: 1, AccountNumber: "A"}))
	require.NoError(t, repos.Accounts.Create(ctx, &model.Account{UserID: 2, AccountNumber: "B"}))
	assert.ErrorIs(t, repos.Accounts.Create(ctx, &model.Account{UserID: 1, AccountNumber: "A"}), ErrAccountNumberTaken)

	for _, tx := range []*model.Transaction{
		{FromAccount: model.InitialDepositSource, ToAccount: "A", Amount: decimal.NewFromInt(500)},
		{FromAccount: model.InitialDepositSource, ToAccount: "B", Amount: decimal.NewFromInt(500)},
		{FromAccount: "B", ToAccount: "A", Amount: decimal.NewFromInt(20)},
	} {
		require.NoError(t, repos.Transactions.Create(ctx, tx))
	}

	accounts, err := repos.Accounts.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	txs, err := repos.Transactions.ListByAccountNumbers(ctx, []string{"A"})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, int64(1), txs[0].ID)
	assert.Equal(t, int64(3), txs[1].ID)
}

func TestMemoryManager_ReadsWaitForOpenTx(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()
	require.NoError(t, m.Repositories().Users.Create(ctx, &model.User{Email: "a@x.com"}))

	inserted := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- m.WithTx(ctx, func(ctx context.Context, repos Repositories) error {
			acc := &model.Account{UserID: 1, AccountNumber: "ACCT-1-1000", Balance: decimal.NewFromInt(500)}
			if err := repos.Accounts.Create(ctx, acc); err != nil {
				return err
			}
			close(inserted)
			<-release
			return errors.New("seed insert failed")
		})
	}()

	<-inserted
	seen := make(chan int, 1)
	go func() {
		accounts, err := m.Repositories().Accounts.ListByUserID(ctx, 1)
		if err != nil {
			seen <- -1
			return
		}
		seen <- len(accounts)
	}()

	select {
	case n := <-seen:
		t.Fatalf("read completed while the transaction was open, saw %d accounts", n)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.Error(t, <-txDone)
	assert.Equal(t, 0, <-seen)
}
