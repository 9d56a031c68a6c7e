package kafkat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// OrderNotifier publishes order-created events for the notification
// consumer. It implements service.Notifier.
type OrderNotifier struct {
	writer *kafka.Writer
	log    logger.Logger
}

func NewOrderNotifier(writer *kafka.Writer, log logger.Logger) *OrderNotifier {
	return &OrderNotifier{
		writer: writer,
		log:    log,
	}
}

func (n *OrderNotifier) NotifyOrderCreated(ctx context.Context, event *entity.OrderCreatedEvent) error {
	const op = "transport.kafka.notifier.NotifyOrderCreated"

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: marshal event: %w", op, err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderUID.String()),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("%s: write message: %w", op, err)
	}

	n.log.Infow("order-created event published",
		"order_uid", event.OrderUID.String(),
	)
	return nil
}

func (n *OrderNotifier) Close() error {
	if err := n.writer.Close(); err != nil {
		return fmt.Errorf("transport.kafka.notifier.Close: %w", err)
	}
	return nil
}
