package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mirola777/payhook/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestAMQPSender_PublishesWithIdempotencyKey(t *testing.T) {
	ch := &fakeChannel{}
	sender := &AMQPSender{channel: ch}

	require.NoError(t, sender.Send(context.Background(), notification()))

	assert.Equal(t, "payments", ch.exchange)
	assert.Equal(t, "payment.status", ch.key)
	assert.Equal(t, "key-123", ch.msg.MessageId)
	assert.Equal(t, "key-123", ch.msg.Headers["Idempotency-Key"])
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var body domain.StatusChange
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, "pay_42", body.PaymentID)
}

func TestAMQPSender_PublishErrorIsRetryable(t *testing.T) {
	sender := &AMQPSender{channel: &fakeChannel{err: errors.New("channel closed")}}

	err := sender.Send(context.Background(), notification())
	require.Error(t, err)
	assert.False(t, domain.IsPermanentDelivery(err))
}

func TestAMQPSender_CloseWithoutConnection(t *testing.T) {
	assert.NoError(t, (&AMQPSender{}).Close())
}
