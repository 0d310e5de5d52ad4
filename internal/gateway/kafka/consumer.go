package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/domain"
	"github.com/segmentio/kafka-go"
)

// PaymentCallbacks is the slice of the saga the consumer needs.
type PaymentCallbacks interface {
	CompletePayment(ctx context.Context, orderID, transactionID string) (domain.Order, error)
	FailPayment(ctx context.Context, orderID, reason string) (domain.Order, error)
}

// Deduper filters duplicate deliveries; nil disables the first-line filter
// and leaves replay safety to the saga's status checks.
type Deduper interface {
	Key(topic string, partition int, offset int64) string
	Seen(ctx context.Context, key string) (bool, error)
}

// OutcomeConsumer reads payment outcomes from the gateway topic and applies
// them to orders. Delivery is at-least-once: duplicates are dropped by the
// deduper when present, and an outcome for an already-settled order is a
// logged no-op either way.
type OutcomeConsumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	saga   PaymentCallbacks
	idem   Deduper
}

func NewOutcomeConsumer(log *slog.Logger, brokers []string, topic, group string, saga PaymentCallbacks, idem Deduper) *OutcomeConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &OutcomeConsumer{
		log:    log,
		reader: r,
		saga:   saga,
		idem:   idem,
	}
}

func (c *OutcomeConsumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if c.idem != nil {
			key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
			seen, err := c.idem.Seen(ctx, key)
			if err != nil {
				c.log.Error("idempotency check failed", "err", err)
				continue
			}
			if seen {
				c.log.Info("duplicate outcome skipped", "key", key)
				_ = c.reader.CommitMessages(ctx, msg)
				continue
			}
		}

		if err := c.handleOutcome(ctx, msg.Value); err != nil {
			c.log.Error("apply payment outcome failed", "err", err)
		}
		_ = c.reader.CommitMessages(ctx, msg)
	}
}

type paymentOutcome struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

const (
	outcomeCompleted = "completed"
	outcomeFailed    = "failed"
)

func (c *OutcomeConsumer) handleOutcome(ctx context.Context, value []byte) error {
	var outcome paymentOutcome
	if err := json.Unmarshal(value, &outcome); err != nil {
		// Poison message: log and move on, the offset is committed anyway.
		c.log.Error("unmarshal payment outcome failed", "err", err)
		return nil
	}

	var err error
	switch outcome.Status {
	case outcomeCompleted:
		_, err = c.saga.CompletePayment(ctx, outcome.OrderID, outcome.TransactionID)
	case outcomeFailed:
		_, err = c.saga.FailPayment(ctx, outcome.OrderID, outcome.Reason)
	default:
		c.log.Error("unknown payment outcome status", "status", outcome.Status, "order_id", outcome.OrderID)
		return nil
	}

	if err != nil {
		// A settled order means the gateway redelivered a known outcome.
		if errors.Is(err, domain.ErrInvalidTransition) {
			c.log.Info("outcome for settled order ignored", "order_id", outcome.OrderID)
			return nil
		}
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.log.Warn("outcome for unknown order", "order_id", outcome.OrderID)
			return nil
		}
		return fmt.Errorf("apply outcome for order %s: %w", outcome.OrderID, err)
	}

	c.log.Info("payment outcome applied", "order_id", outcome.OrderID, "status", outcome.Status)
	return nil
}
