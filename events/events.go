package events

import (
	"context"
	"time"

	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/sirupsen/logrus"
)

// Routing keys published on the domain exchange.
const (
	UserRegistered   = "user.registered"
	AccountCreated   = "account.created"
	KYCStatusChanged = "kyc.status_changed"
)

// Publisher delivers domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

type UserRegisteredEvent struct {
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	Documents  int       `json:"documents"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AccountCreatedEvent struct {
	AccountID     int64     `json:"account_id"`
	UserID        int64     `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	AccountType   string    `json:"acc_type"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type KYCStatusChangedEvent struct {
	UserID     int64     `json:"user_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PublishBestEffort publishes and only logs failures. Events are emitted after
// the owning write has committed, so a lost event never undoes that write.
func PublishBestEffort(ctx context.Context, p Publisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, payload); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"routing_key": routingKey,
		}).WithError(err).Warn("Failed to publish event")
	}
}
