package events

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/domain"
)

func newMockProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	mp := mocks.NewSyncProducer(t, config)
	return NewProducerWith(mp, zap.NewNop()), mp
}

func TestPublishOrderCreated(t *testing.T) {
	p, mp := newMockProducer(t)
	defer p.Close()

	mp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event OrderCreatedEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		assert.Equal(t, "ORD-123456-789", event.OrderNumber)
		assert.Equal(t, 117.00, event.Total)
		assert.False(t, event.EventTime.IsZero())
		return nil
	})

	err := p.PublishOrderCreated(OrderCreatedEvent{
		OrderID:       "id-1",
		OrderNumber:   "ORD-123456-789",
		PaymentMethod: domain.PaymentMethodCashOnDelivery,
		Total:         117.00,
	})
	require.NoError(t, err)
}

func TestPublishOrderStatusChanged(t *testing.T) {
	p, mp := newMockProducer(t)
	defer p.Close()

	mp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event OrderStatusChangedEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		assert.Equal(t, domain.OrderStatusPending, event.From)
		assert.Equal(t, domain.OrderStatusShipped, event.To)
		return nil
	})

	err := p.PublishOrderStatusChanged(OrderStatusChangedEvent{
		OrderID:     "id-1",
		OrderNumber: "ORD-123456-789",
		From:        domain.OrderStatusPending,
		To:          domain.OrderStatusShipped,
	})
	require.NoError(t, err)
}

// A nil producer drops events so callers need no enabled checks.
func TestNilProducerIsSafe(t *testing.T) {
	var p *Producer

	assert.NoError(t, p.PublishOrderCreated(OrderCreatedEvent{OrderID: "id-1"}))
	assert.NoError(t, p.PublishOrderStatusChanged(OrderStatusChangedEvent{OrderID: "id-1"}))
	assert.NoError(t, p.Close())
}
