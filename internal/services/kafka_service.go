package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/znsio/specmatic-product-admin-go/internal/models"
)

// MessageWriter is the subset of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProductEventPublisher sends product change messages to a Kafka topic.
type ProductEventPublisher struct {
	writer MessageWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewProductEventPublisher writes asynchronously: a slow or unreachable broker
// never delays the admin operation that produced the event. Delivery failures
// are logged from the writer's completion callback.
func NewProductEventPublisher(brokers []string, topic string, logger *slog.Logger) *ProductEventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		Async:        true,
		Completion:   deliveryLogger(logger),
	}
	return NewProductEventPublisherWithWriter(w, logger)
}

func deliveryLogger(logger *slog.Logger) func(messages []kafka.Message, err error) {
	return func(messages []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, m := range messages {
			logger.Warn("product change not delivered", "topic", m.Topic, "key", string(m.Key), "error", err)
		}
	}
}

func NewProductEventPublisherWithWriter(w MessageWriter, logger *slog.Logger) *ProductEventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductEventPublisher{writer: w, logger: logger, now: time.Now}
}

// PublishProductChange writes one message keyed by the product id.
func (p *ProductEventPublisher) PublishProductChange(ctx context.Context, action models.ProductAction, product models.Product) error {
	message := NewProductMessage(action, product, p.now())

	value, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("error marshaling product message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(product.ID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("error writing message to Kafka: %w", err)
	}

	p.logger.Debug("product change queued", "action", action, "id", product.ID, "event_id", message.EventID)
	return nil
}

func (p *ProductEventPublisher) Close() error {
	return p.writer.Close()
}

func NewProductMessage(action models.ProductAction, product models.Product, at time.Time) models.ProductMessage {
	return models.ProductMessage{
		EventID:    uuid.NewString(),
		Action:     action,
		ID:         product.ID,
		Title:      product.Title,
		Price:      product.Price,
		IsEnabled:  product.IsEnabled,
		OccurredAt: at.UTC(),
	}
}

// NopPublisher drops every change; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishProductChange(context.Context, models.ProductAction, models.Product) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
