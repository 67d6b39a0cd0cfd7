package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type CreateAccountResponse struct {
	Message       string `json:"message"`
	AccountID     string `json:"account_id"`
	AccountNumber string `json:"account_number"`
}

type AccountResponse struct {
	UserID        string          `json:"user_id"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	AccountType   string          `json:"acc_type"`
}

type TransactionResponse struct {
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
}

type DashboardResponse struct {
	Accounts     []AccountResponse     `json:"accounts"`
	Transactions []TransactionResponse `json:"transactions"`
}

func NewRegisterResponse(u *User) RegisterResponse {
	return RegisterResponse{Message: "User registered", UserID: strconv.FormatInt(u.ID, 10)}
}

func NewCreateAccountResponse(a *Account) CreateAccountResponse {
	return CreateAccountResponse{
		Message:       "Account created",
		AccountID:     strconv.FormatInt(a.ID, 10),
		AccountNumber: a.AccountNumber,
	}
}

func NewDashboardResponse(d *Dashboard) DashboardResponse {
	resp := DashboardResponse{
		Accounts:     make([]AccountResponse, 0, len(d.Accounts)),
		Transactions: make([]TransactionResponse, 0, len(d.Transactions)),
	}
	for _, a := range d.Accounts {
		resp.Accounts = append(resp.Accounts, AccountResponse{
			UserID:        strconv.FormatInt(a.UserID, 10),
			AccountNumber: a.AccountNumber,
			Balance:       a.Balance,
			AccountType:   a.AccountType,
		})
	}
	for _, t := range d.Transactions {
		resp.Transactions = append(resp.Transactions, TransactionResponse{
			FromAccount: t.FromAccount,
			ToAccount:   t.ToAccount,
			Amount:      t.Amount,
			Timestamp:   t.CreatedAt.UTC(),
		})
	}
	return resp
}

func KYCMessage(status KYCStatus) MessageResponse {
	return MessageResponse{Message: "KYC " + string(status)}
}
