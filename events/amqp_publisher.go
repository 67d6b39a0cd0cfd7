package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Mareeswari30/Smart-Banking/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AMQPPublisher publishes JSON events to a durable topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPPublisher(rawURL, exchange string) (*AMQPPublisher, error) {
	cleanURL, err := normalizeAMQPURL(rawURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	p := &AMQPPublisher{conn: conn, exchange: exchange}
	if err := p.openChannel(); err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) openChannel() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("failed to declare exchange %q: %w", p.exchange, err)
	}
	p.channel = ch
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}

	// One retry on a fresh channel; channels close after any protocol error.
	logger.Log.WithFields(logrus.Fields{
		"exchange":    p.exchange,
		"routing_key": routingKey,
	}).WithError(err).Warn("Publish failed, reopening channel")
	if p.conn.IsClosed() {
		return err
	}
	if chErr := p.openChannel(); chErr != nil {
		return errors.Join(err, chErr)
	}
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

// normalizeAMQPURL trims whitespace and quotes that often leak in from .env files.
func normalizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("invalid rabbitmq url: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("rabbitmq url must start with amqp:// or amqps://")
	}
	return clean, nil
}

// Connect returns an AMQP publisher, or a LogPublisher when url is empty or the
// broker cannot be reached at startup.
func Connect(rawURL, exchange string) Publisher {
	if strings.TrimSpace(rawURL) == "" {
		logger.Log.Info("RabbitMQ URL not set, events will be logged only")
		return LogPublisher{}
	}
	p, err := NewAMQPPublisher(rawURL, exchange)
	if err != nil {
		logger.Log.WithError(err).Warn("RabbitMQ unavailable, falling back to log publisher")
		return LogPublisher{}
	}
	logger.Log.WithField("exchange", exchange).Info("RabbitMQ publisher ready")
	return p
}
