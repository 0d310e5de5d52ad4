package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bjoern621/VibeSoftwareEngineering-sub001/internal/app"
	"github.com/segmentio/kafka-go"
)

// ChargeProducer publishes charge requests to the payment gateway topic. It
// implements app.PaymentGateway; the outcome arrives later on the outcome
// topic.
type ChargeProducer struct {
	log    *slog.Logger
	writer *kafka.Writer
}

func NewChargeProducer(log *slog.Logger, brokers []string, topic string) *ChargeProducer {
	return &ChargeProducer{
		log: log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

type chargeMessage struct {
	OrderID     string `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
}

func (p *ChargeProducer) Charge(ctx context.Context, req app.ChargeRequest) error {
	payload, err := json.Marshal(chargeMessage{
		OrderID:     req.OrderID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
	})
	if err != nil {
		return fmt.Errorf("marshal charge: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(req.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("ChargeRequested")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write charge message: %w", err)
	}
	p.log.Info("charge requested", "order_id", req.OrderID, "amount_cents", req.AmountCents)
	return nil
}

func (p *ChargeProducer) Close() error {
	return p.writer.Close()
}
