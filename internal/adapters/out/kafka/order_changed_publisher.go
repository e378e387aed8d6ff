// Package kafka publishes committed order transitions to Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const eventTypeOrderChanged = "order.changed"

// Producer is the subset of *kafka.Writer the publisher needs.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OrderChanged is the wire payload of the order-changed topic.
type OrderChanged struct {
	EventID     string     `json:"eventId"`
	OrderID     string     `json:"orderId"`
	Status      string     `json:"status"`
	AgentID     *string    `json:"agentId,omitempty"`
	Version     int64      `json:"version"`
	OccurredAt  time.Time  `json:"occurredAt"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
}

// OrderChangedPublisher implements ports.OrderEventPublisher. Messages are
// keyed by order id so that all transitions of one order stay in one
// partition, in order.
type OrderChangedPublisher struct {
	producer Producer
	topic    string
}

var _ ports.OrderEventPublisher = (*OrderChangedPublisher)(nil)

func NewOrderChangedPublisher(producer Producer, topic string) *OrderChangedPublisher {
	return &OrderChangedPublisher{producer: producer, topic: topic}
}

// NewWriter returns a writer that waits for all in-sync replicas.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

func (p *OrderChangedPublisher) PublishOrderChanged(ctx context.Context, orders ...*order.Order) error {
	if len(orders) == 0 {
		return nil
	}

	headers := traceHeaders(ctx)
	msgs := make([]kafka.Message, 0, len(orders))
	for _, o := range orders {
		payload, err := json.Marshal(newOrderChanged(o))
		if err != nil {
			return fmt.Errorf("encode order %s: %w", o.ID(), err)
		}

		msgs = append(msgs, kafka.Message{
			Topic:   p.topic,
			Key:     []byte(o.ID().String()),
			Value:   payload,
			Headers: headers,
		})
	}

	if err := p.producer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d order events: %w", len(msgs), err)
	}

	return nil
}

func newOrderChanged(o *order.Order) OrderChanged {
	event := OrderChanged{
		EventID:     uuid.NewString(),
		OrderID:     o.ID().String(),
		Status:      o.Status().String(),
		Version:     o.Version(),
		OccurredAt:  o.UpdatedAt().UTC(),
		DeliveredAt: o.DeliveredAt(),
	}

	if id := o.AgentID(); id != nil {
		s := id.String()
		event.AgentID = &s
	}

	return event
}

func traceHeaders(ctx context.Context) []kafka.Header {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := make([]kafka.Header, 0, len(carrier)+1)
	headers = append(headers, kafka.Header{Key: "event_type", Value: []byte(eventTypeOrderChanged)})
	for _, key := range carrier.Keys() {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(carrier.Get(key))})
	}

	return headers
}
