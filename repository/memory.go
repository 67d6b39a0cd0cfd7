package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Mareeswari30/Smart-Banking/model"
)

// MemoryManager is a process-local Manager used for development runs and tests.
// Transactions are serialized and a failed WithTx restores the state captured
// when it began. Repositories used outside WithTx wait for any open transaction,
// so they never observe uncommitted rows.
type MemoryManager struct {
	txMu  sync.RWMutex
	store *memStore
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{store: &memStore{now: time.Now}}
}

func (m *MemoryManager) Repositories() Repositories {
	return m.bind(txGate{&m.txMu})
}

func (m *MemoryManager) bind(g txGate) Repositories {
	return Repositories{
		Users:        &memUsers{m.store, g},
		Accounts:     &memAccounts{m.store, g},
		Transactions: &memTransactions{m.store, g},
	}
}

// txGate orders autocommit access against WithTx. The zero value is used
// inside a transaction, which already holds the lock exclusively.
type txGate struct {
	mu *sync.RWMutex
}

func (g txGate) read() func() {
	if g.mu == nil {
		return func() {}
	}
	g.mu.RLock()
	return g.mu.RUnlock
}

func (g txGate) write() func() {
	if g.mu == nil {
		return func() {}
	}
	g.mu.Lock()
	return g.mu.Unlock
}

func (m *MemoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) (err error) {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.store.snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.store.restore(snap)
			panic(p)
		}
		if err != nil {
			m.store.restore(snap)
		}
	}()

	return fn(ctx, m.bind(txGate{}))
}

type memStore struct {
	mu           sync.RWMutex
	users        []model.User
	accounts     []model.Account
	transactions []model.Transaction
	now          func() time.Time
}

type memSnapshot struct {
	users        []model.User
	accounts     []model.Account
	transactions []model.Transaction
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memSnapshot{
		users:        slices.Clone(s.users),
		accounts:     slices.Clone(s.accounts),
		transactions: slices.Clone(s.transactions),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.accounts = snap.accounts
	s.transactions = snap.transactions
}

func copyUser(u model.User) *model.User {
	u.Documents = slices.Clone(u.Documents)
	if u.MobileNumber != nil {
		m := *u.MobileNumber
		u.MobileNumber = &m
	}
	return &u
}

type memUsers struct {
	s *memStore
	g txGate
}

func (r *memUsers) Create(_ context.Context, user *model.User) error {
	defer r.g.write()()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	user.ID = int64(len(r.s.users) + 1)
	user.CreatedAt = r.s.now().UTC()
	if user.Documents == nil {
		user.Documents = []string{}
	}
	r.s.users = append(r.s.users, *copyUser(*user))
	return nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	defer r.g.read()()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	defer r.g.read()()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if id < 1 || id > int64(len(r.s.users)) {
		return nil, ErrNotFound
	}
	return copyUser(r.s.users[id-1]), nil
}

func (r *memUsers) UpdateKYCStatus(_ context.Context, id int64, status model.KYCStatus) error {
	defer r.g.write()()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id < 1 || id > int64(len(r.s.users)) {
		return ErrNotFound
	}
	r.s.users[id-1].KYCStatus = status
	return nil
}

type memAccounts struct {
	s *memStore
	g txGate
}

func (r *memAccounts) Create(_ context.Context, account *model.Account) error {
	defer r.g.write()()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if account.UserID < 1 || account.UserID > int64(len(r.s.users)) {
		return ErrNotFound
	}
	for _, a := range r.s.accounts {
		if a.AccountNumber == account.AccountNumber {
			return ErrAccountNumberTaken
		}
	}
	account.ID = int64(len(r.s.accounts) + 1)
	account.CreatedAt = r.s.now().UTC()
	r.s.accounts = append(r.s.accounts, *account)
	return nil
}

func (r *memAccounts) ExistsByNumber(_ context.Context, number string) (bool, error) {
	defer r.g.read()()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.accounts {
		if a.AccountNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAccounts) ListByUserID(_ context.Context, userID int64) ([]*model.Account, error) {
	defer r.g.read()()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*model.Account{}
	for _, a := range r.s.accounts {
		if a.UserID == userID {
			acc := a
			out = append(out, &acc)
		}
	}
	return out, nil
}

type memTransactions struct {
	s *memStore
	g txGate
}

func (r *memTransactions) Create(_ context.Context, t *model.Transaction) error {
	defer r.g.write()()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = int64(len(r.s.transactions) + 1)
	t.CreatedAt = r.s.now().UTC()
	r.s.transactions = append(r.s.transactions, *t)
	return nil
}

func (r *memTransactions) ListByAccountNumbers(_ context.Context, numbers []string) ([]*model.Transaction, error) {
	defer r.g.read()()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*model.Transaction{}
	for _, t := range r.s.transactions {
		if slices.Contains(numbers, t.FromAccount) || slices.Contains(numbers, t.ToAccount) {
			tx := t
			out = append(out, &tx)
		}
	}
	return out, nil
}
