package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewDashboardResponse(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	d := &Dashboard{
		Accounts: []*Account{{ID: 1, UserID: 7, AccountNumber: "ACCT-1-1234", Balance: decimal.NewFromInt(500), AccountType: "savings"}},
		Transactions: []*Transaction{
			{ID: 1, FromAccount: InitialDepositSource, ToAccount: "ACCT-1-1234", Amount: decimal.NewFromInt(500), CreatedAt: ts},
		},
	}

	got := NewDashboardResponse(d)
	want := DashboardResponse{
		Accounts: []AccountResponse{{UserID: "7", AccountNumber: "ACCT-1-1234", Balance: decimal.NewFromInt(500), AccountType: "savings"}},
		Transactions: []TransactionResponse{
			{FromAccount: "INITIAL_DEPOSIT", ToAccount: "ACCT-1-1234", Amount: decimal.NewFromInt(500), Timestamp: ts},
		},
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("NewDashboardResponse mismatch (-want +got):\n%s", diff)
	}
}

func TestNewDashboardResponse_EmptyListsNotNull(t *testing.T) {
	got := NewDashboardResponse(&Dashboard{})
	assert.NotNil(t, got.Accounts)
	assert.NotNil(t, got.Transactions)
}

func TestResponses(t *testing.T) {
	assert.Equal(t, RegisterResponse{Message: "User registered", UserID: "42"}, NewRegisterResponse(&User{ID: 42}))
	assert.Equal(t, "KYC approved", KYCMessage(KYCApproved).Message)
	assert.Equal(t, "KYC rejected", KYCMessage(KYCRejected).Message)
	assert.Equal(t, TokenResponse{AccessToken: "abc", TokenType: "bearer"}, NewTokenResponse(AccessToken{Value: "abc"}))
	assert.True(t, KYCPending.Valid())
	assert.False(t, KYCStatus("unknown").Valid())
}
