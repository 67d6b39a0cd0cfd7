package events

import (
	"context"

	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/sirupsen/logrus"
)

// LogPublisher is used when no broker is configured or reachable. It writes
// each event to the application log instead of failing the caller.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	logger.Log.WithFields(logrus.Fields{
		"routing_key": routingKey,
		"payload":     payload,
	}).Info("Event (broker disabled)")
	return nil
}

func (LogPublisher) Close() error { return nil }
