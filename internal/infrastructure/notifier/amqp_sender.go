package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mirola777/payhook/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "payments"
	RoutingKey   = "payment.status"
)

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSender publishes status changes to the payments exchange. The
// idempotency key travels as the message id so consumers can deduplicate.
type AMQPSender struct {
	mu      sync.Mutex
	channel publisher
	closer  func() error
}

func NewAMQPSender(amqpURL string) (*AMQPSender, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPSender{
		channel: channel,
		closer: func() error {
			channel.Close()
			return conn.Close()
		},
	}, nil
}

func (s *AMQPSender) Send(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n.Payload)
	if err != nil {
		return &domain.PermanentDeliveryError{Body: err.Error()}
	}

	// amqp091 channels are not safe for concurrent publishing
	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.channel.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    n.IdempotencyKey,
			Headers:      amqp.Table{"Idempotency-Key": n.IdempotencyKey},
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish status change: %w", err)
	}
	return nil
}

func (s *AMQPSender) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
