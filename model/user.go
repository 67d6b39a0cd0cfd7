package model

import "time"

type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

func (s KYCStatus) Valid() bool {
	switch s {
	case KYCPending, KYCApproved, KYCRejected:
		return true
	}
	return false
}

// User is the stored credential record. PasswordHash never leaves the service layer.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	MobileNumber *string
	Documents    []string
	KYCStatus    KYCStatus
	CreatedAt    time.Time
}
