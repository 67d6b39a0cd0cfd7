package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Mareeswari30/Smart-Banking/events"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/Mareeswari30/Smart-Banking/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsers(t *testing.T, repos repository.Manager, emails ...string) {
	t.Helper()
	for _, email := range emails {
		require.NoError(t, repos.Repositories().Users.Create(context.Background(), &model.User{Email: email, KYCStatus: model.KYCPending}))
	}
}

func TestGenerateAccountNumber(t *testing.T) {
	now := time.Unix(1700000000, 0)
	pattern := regexp.MustCompile(`^ACCT-1700000000-[1-9]\d{3}$`)
	for range 50 {
		assert.Regexp(t, pattern, GenerateAccountNumber(now))
	}
}

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryManager()
	seedUsers(t, repos, "alice@x.com")
	svc := NewAccountService(repos, nil, 0, events.LogPublisher{})

	account, err := svc.CreateAccount(ctx, 1, "savings")
	require.NoError(t, err)
	assert.True(t, InitialDeposit.Equal(account.Balance))
	assert.Regexp(t, `^ACCT-\d+-\d{4}$`, account.AccountNumber)

	d, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, d.Accounts, 1)
	require.Len(t, d.Transactions, 1)
	seed := d.Transactions[0]
	assert.Equal(t, model.InitialDepositSource, seed.FromAccount)
	assert.Equal(t, account.AccountNumber, seed.ToAccount)
	assert.True(t, decimal.NewFromInt(500).Equal(seed.Amount))
}

func TestAccountService_CreateAccount_UnknownUser(t *testing.T) {
	svc := NewAccountService(repository.NewMemoryManager(), nil, 0, nil)
	_, err := svc.CreateAccount(context.Background(), 42, "savings")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccountService_CreateAccount_CollisionRetry(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryManager()
	seedUsers(t, repos, "alice@x.com")
	svc := NewAccountService(repos, nil, 0, nil)

	numbers := []string{"ACCT-1-1111", "ACCT-1-1111", "ACCT-1-2222"}
	calls := 0
	svc.newNumber = func(time.Time) string {
		n := numbers[calls]
		calls++
		return n
	}

	first, err := svc.CreateAccount(ctx, 1, "savings")
	require.NoError(t, err)
	assert.Equal(t, "ACCT-1-1111", first.AccountNumber)

	second, err := svc.CreateAccount(ctx, 1, "checking")
	require.NoError(t, err)
	assert.Equal(t, "ACCT-1-2222", second.AccountNumber)
	assert.Equal(t, 3, calls)

	d, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, d.Accounts, 2)
	assert.Len(t, d.Transactions, 2)
}

func TestAccountService_CreateAccount_CollisionExhausted(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryManager()
	seedUsers(t, repos, "alice@x.com")
	svc := NewAccountService(repos, nil, 0, nil)
	svc.newNumber = func(time.Time) string { return "ACCT-1-1111" }

	_, err := svc.CreateAccount(ctx, 1, "savings")
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, 1, "savings")
	assert.ErrorIs(t, err, ErrAccountNumberCollision)

	d, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, d.Accounts, 1)
	assert.Len(t, d.Transactions, 1)
}

func TestAccountService_CreateAccount_SeedFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewAccountService(repository.NewPostgresManager(db), nil, 0, nil)
	svc.newNumber = func(time.Time) string { return "ACCT-1-1234" }

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("ACCT-1-1234").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = svc.CreateAccount(context.Background(), 1, "savings")
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountService_ListForUser_OnlyOwnData(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryManager()
	seedUsers(t, repos, "alice@x.com", "bob@x.com")
	svc := NewAccountService(repos, nil, 0, nil)

	aliceAcc, err := svc.CreateAccount(ctx, 1, "savings")
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, 2, "savings")
	require.NoError(t, err)

	d, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, d.Accounts, 1)
	assert.Equal(t, aliceAcc.AccountNumber, d.Accounts[0].AccountNumber)
	for _, tx := range d.Transactions {
		assert.True(t, tx.FromAccount == aliceAcc.AccountNumber || tx.ToAccount == aliceAcc.AccountNumber)
	}

	empty, err := svc.ListForUser(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, empty.Accounts)
	assert.Empty(t, empty.Transactions)
}

func TestAccountService_DashboardCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	repos := repository.NewMemoryManager()
	seedUsers(t, repos, "alice@x.com")
	svc := NewAccountService(repos, rdb, 5*time.Minute, nil)

	_, err := svc.CreateAccount(ctx, 1, "savings")
	require.NoError(t, err)

	// creating the account moved the dashboard to version 1
	key := fmt.Sprintf("dashboard:%d:v%d", 1, 1)
	assert.False(t, mr.Exists(key))

	first, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.True(t, mr.Exists(key), "cache miss should populate the key")
	assert.Equal(t, 5*time.Minute, mr.TTL(key))

	cached, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.Accounts[0].AccountNumber, cached.Accounts[0].AccountNumber)
	assert.True(t, first.Accounts[0].Balance.Equal(cached.Accounts[0].Balance))

	_, err = svc.CreateAccount(ctx, 1, "checking")
	require.NoError(t, err)
	assert.False(t, mr.Exists(key), "new account must invalidate the dashboard")
	version, err := mr.Get("dashboard:1:version")
	require.NoError(t, err)
	assert.Equal(t, "2", version)

	fresh, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, fresh.Accounts, 2)
}

func TestDashboardCache_StaleFillAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	cache := &dashboardCache{client: rdb, ttl: time.Minute}

	// a reader misses and loads from the database
	_, ver, ok := cache.get(ctx, 1)
	require.False(t, ok)
	require.Equal(t, "0", ver)
	stale := &model.Dashboard{Accounts: []*model.Account{}}

	// a writer commits a new account before the reader fills the cache
	cache.invalidate(ctx, 1)
	cache.set(ctx, 1, ver, stale)

	_, ver, ok = cache.get(ctx, 1)
	assert.False(t, ok, "a fill under an outdated version must not be served")
	assert.Equal(t, "1", ver)
}

func TestAccountService_DashboardCache_RedisDownFallsThrough(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()

	repos := repository.NewMemoryManager()
	seedUsers(t, repos, "alice@x.com")
	svc := NewAccountService(repos, rdb, time.Minute, nil)
	mr.Close()

	_, err := svc.CreateAccount(ctx, 1, "savings")
	require.NoError(t, err)
	d, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, d.Accounts, 1)
}
