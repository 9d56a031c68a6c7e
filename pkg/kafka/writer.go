package kafka

import (
	"context"
	"fmt"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/config"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter builds the producer used for order-created notifications.
func NewKafkaWriter(cfg config.Kafka, log logger.Logger) (*kafka.Writer, error) {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.InfoLevel, "kafka writer info",
				logger.String("message", fmt.Sprintf(msg, args...)),
			)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.ErrorLevel, "kafka writer error",
				logger.String("error", fmt.Sprintf(msg, args...)),
			)
		}),
	}

	if err := checkKafkaConnection(cfg.Brokers, log); err != nil {
		return nil, fmt.Errorf("kafka.NewKafkaWriter: %w", err)
	}

	return writer, nil
}
