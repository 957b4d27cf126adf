package events

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/domain"
)

const (
	OrderCreatedTopic       = "order.created"
	OrderStatusChangedTopic = "order.status_changed"
)

// OrderCreatedEvent is published after a checkout persists an order
type OrderCreatedEvent struct {
	OrderID       string               `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Total         float64              `json:"total"`
	CreatedAt     time.Time            `json:"created_at"`
	EventTime     time.Time            `json:"event_time"`
}

// OrderStatusChangedEvent is published after an admin status transition
type OrderStatusChangedEvent struct {
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	From        domain.OrderStatus `json:"from"`
	To          domain.OrderStatus `json:"to"`
	Location    string             `json:"location,omitempty"`
	EventTime   time.Time          `json:"event_time"`
}

// Producer publishes order lifecycle events. A nil *Producer is valid
// and drops all events, so callers need no enabled checks.
type Producer struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
}

// NewProducer creates a Kafka producer for order events
func NewProducer(brokers string, logger *zap.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(strings.Split(brokers, ","), config)
	if err != nil {
		return nil, err
	}

	return &Producer{
		producer: producer,
		logger:   logger,
	}, nil
}

// NewProducerWith wraps an existing sarama producer, used in tests
func NewProducerWith(producer sarama.SyncProducer, logger *zap.Logger) *Producer {
	return &Producer{producer: producer, logger: logger}
}

// PublishOrderCreated publishes an order.created event
func (p *Producer) PublishOrderCreated(event OrderCreatedEvent) error {
	if p == nil {
		return nil
	}
	event.EventTime = time.Now()
	return p.publish(OrderCreatedTopic, event.OrderID, event)
}

// PublishOrderStatusChanged publishes an order.status_changed event
func (p *Producer) PublishOrderStatusChanged(event OrderStatusChangedEvent) error {
	if p == nil {
		return nil
	}
	event.EventTime = time.Now()
	return p.publish(OrderStatusChangedTopic, event.OrderID, event)
}

func (p *Producer) publish(topic, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error("Failed to publish order event",
			zap.String("topic", topic),
			zap.Error(err))
		return err
	}

	p.logger.Info("Order event published",
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
		zap.String("key", key),
	)

	return nil
}

// Close closes the underlying producer
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
