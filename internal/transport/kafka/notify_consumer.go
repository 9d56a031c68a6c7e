package kafkat

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/kafka/dlq"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/mailer"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/metric"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

// NotifyConsumer turns order-created events into confirmation emails.
// Events that keep failing end up in the DLQ for the retry processor.
type NotifyConsumer struct {
	reader *kafka.Reader
	dlq    *dlq.DLQ
	mailer mailer.Mailer
	metric metric.Kafka
	log    logger.Logger
}

func NewNotifyConsumer(
	reader *kafka.Reader,
	dlq *dlq.DLQ,
	mailer mailer.Mailer,
	metric metric.Kafka,
	log logger.Logger,
) *NotifyConsumer {
	return &NotifyConsumer{
		reader: reader,
		dlq:    dlq,
		mailer: mailer,
		metric: metric,
		log:    log,
	}
}

func (c *NotifyConsumer) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return c.run(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()
		c.log.Infow("shutting down notify consumer")
		return c.reader.Close()
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("transport.kafka.notify_consumer.Start: %w", err)
	}
	return nil
}

func (c *NotifyConsumer) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("transport.kafka.notify_consumer.run: %w", err)
			}
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(ctx.Err(), context.Canceled) {
					return nil
				}
				c.log.Errorw("kafka read failed",
					"error", err,
				)
				continue
			}

			c.metric.MessageProcessed(msg.Topic, msg.Partition)
			c.processMessage(ctx, msg)
		}
	}
}

func (c *NotifyConsumer) processMessage(ctx context.Context, msg kafka.Message) {
	c.log.Infow("processing kafka message",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
	)

	err := dlq.ProcessWithRetry(
		ctx,
		msg,
		c.handleMessage,
		c.dlq,
		c.log,
	)
	if err != nil {
		dlqErr := c.dlq.Send(ctx, msg, err, c.dlq.MaxAttempts)
		if dlqErr != nil {
			c.log.Errorw("critical: failed to send to DLQ after retries",
				"offset", msg.Offset,
				"original_error", err,
				"dlq_error", dlqErr,
			)
			c.log.Errorw("dlq fallback",
				"payload_hash", sha256.Sum256(msg.Value),
				"offset", msg.Offset,
			)
		} else {
			c.log.Infow("message sent to DLQ after max retries",
				"offset", msg.Offset,
				"retry_count", c.dlq.MaxAttempts,
			)
		}
		c.metric.MessageFailed(msg.Topic, msg.Partition, "retry_limit_exceeded")
	}
}

func (c *NotifyConsumer) handleMessage(_ context.Context, msg kafka.Message) error {
	const op = "transport.kafka.notify_consumer.handleMessage"

	var event entity.OrderCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("%s: unmarshal event: %w", op, err)
	}

	// Guests who left the email blank have nowhere to be notified.
	if event.Email == "" {
		c.log.Infow("skipping event without recipient",
			"order_uid", event.OrderUID.String(),
			"offset", msg.Offset,
		)
		return nil
	}

	subject, body := confirmationEmail(&event)
	if err := c.mailer.Send(event.Email, subject, body); err != nil {
		return fmt.Errorf("%s: send email: %w", op, err)
	}

	c.log.Infow("confirmation email sent",
		"order_uid", event.OrderUID.String(),
		"offset", msg.Offset,
	)

	return nil
}

func confirmationEmail(event *entity.OrderCreatedEvent) (subject, body string) {
	subject = fmt.Sprintf("Order %s received", event.OrderUID)

	body = fmt.Sprintf(
		"Hello %s,\n\n"+
			"We received your parts request (%d item(s)).\n"+
			"Order reference: %s\n\n"+
			"Our managers will contact you shortly with pricing and availability.\n",
		event.Name, event.PartsCount, event.OrderUID,
	)
	if event.NewAccount {
		body += "\nAn account has been created for you with this email address.\n"
	}
	return subject, body
}
