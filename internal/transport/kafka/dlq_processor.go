package kafkat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/kafka/dlq"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/mailer"

	"github.com/segmentio/kafka-go"
)

const (
	_defaultDLQPollInterval   = 10 * time.Second
	_defaultDLQProcessTimeout = 30 * time.Second
	_defaultDLQHandleTimeout  = 2 * time.Second
)

// DLQProcessor drains the notification dead-letter topic and retries the
// email delivery, bumping the retry count on each failed pass.
type DLQProcessor struct {
	dlqReader  *kafka.Reader
	dlq        *dlq.DLQ
	mailer     mailer.Mailer
	maxRetries int
	log        logger.Logger
}

func NewDLQProcessor(
	reader *kafka.Reader,
	dlq *dlq.DLQ,
	mailer mailer.Mailer,
	maxRetries int,
	log logger.Logger,
) *DLQProcessor {
	return &DLQProcessor{
		dlqReader:  reader,
		dlq:        dlq,
		mailer:     mailer,
		maxRetries: maxRetries,
		log:        log,
	}
}

func (p *DLQProcessor) Start(ctx context.Context) error {
	ticker := time.NewTicker(_defaultDLQPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Infow("dlq processor shutting down")
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("transport.kafka.dlq_processor.Start: %w", err)
			}
			return nil
		case <-ticker.C:
			p.processNext(ctx)
		}
	}
}

func (p *DLQProcessor) processNext(ctx context.Context) {
	processCtx, cancel := context.WithTimeout(ctx, _defaultDLQProcessTimeout)
	defer cancel()

	msg, err := p.dlqReader.ReadMessage(processCtx)
	if err != nil {
		if errors.Is(processCtx.Err(), context.Canceled) {
			return
		}
		p.log.Errorw("read dlq message", "error", err)
		return
	}

	var dlqMsg struct {
		Metadata struct {
			RetryCount int `json:"retry_count"`
		} `json:"metadata"`
		Payload string `json:"payload"`
	}

	if err = json.Unmarshal(msg.Value, &dlqMsg); err != nil {
		p.log.Errorw("unmarshal dlq message",
			"error", err,
			"offset", msg.Offset,
		)
		return
	}

	if dlqMsg.Metadata.RetryCount >= p.maxRetries {
		p.log.Infow("skipping dlq message after max retries",
			"offset", msg.Offset,
			"retry_count", dlqMsg.Metadata.RetryCount,
		)
		return
	}

	var event entity.OrderCreatedEvent
	if err = json.Unmarshal([]byte(dlqMsg.Payload), &event); err != nil {
		p.log.Errorw("unmarshal dlq payload",
			"error", err,
			"offset", msg.Offset,
		)
		return
	}

	if event.Email == "" {
		p.log.Infow("dlq event without recipient, dropping",
			"order_uid", event.OrderUID.String(),
			"offset", msg.Offset,
		)
		return
	}

	handleCtx, handleCancel := context.WithTimeout(processCtx, _defaultDLQHandleTimeout)
	defer handleCancel()

	subject, body := confirmationEmail(&event)
	if err = p.mailer.Send(event.Email, subject, body); err != nil {
		p.log.Errorw("retry dlq message",
			"error", err,
			"offset", msg.Offset,
			"retry_count", dlqMsg.Metadata.RetryCount,
		)

		var dlqSendErr error
		for i := range 3 {
			dlqSendErr = p.dlq.Send(handleCtx, kafka.Message{
				Topic:     msg.Topic,
				Partition: msg.Partition,
				Offset:    msg.Offset,
				Key:       msg.Key,
				Value:     msg.Value,
			}, err, dlqMsg.Metadata.RetryCount+1)

			if dlqSendErr == nil {
				break
			}

			p.log.Warnw("failed to send to DLQ, retrying",
				"retry", i+1,
				"error", dlqSendErr)

			time.Sleep(100 * time.Millisecond * time.Duration(i+1))
		}

		if dlqSendErr != nil {
			p.log.Errorw("failed to send to DLQ after retries",
				"offset", msg.Offset,
				"retry_count", dlqMsg.Metadata.RetryCount+1,
				"error", dlqSendErr,
			)
		}
	} else {
		p.log.Infow("dlq message processed successfully",
			"offset", msg.Offset,
			"order_uid", event.OrderUID.String(),
		)
	}
}
