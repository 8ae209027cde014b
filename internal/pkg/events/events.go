// Package events publishes employee lifecycle events for consumers outside this service.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Type string

const (
	TypeRemovalScheduled Type = "employee.removal_scheduled"
	TypeDeletionDue      Type = "employee.deletion_due"
)

type Event struct {
	ID         string                 `json:"id"`
	Type       Type                   `json:"type"`
	EmployeeID string                 `json:"employee_id"`
	CompanyID  string                 `json:"company_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

func New(t Type, employeeID, companyID string, payload map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		EmployeeID: employeeID,
		CompanyID:  companyID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// messageWriter is the part of *kafka.Writer we use.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := toMessage(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish %d events: %w", len(msgs), err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// toMessage keys by employee so one employee's events stay ordered on a partition.
func toMessage(e Event) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event %s: %w", e.Type, err)
	}
	return kafka.Message{
		Key:   []byte(e.EmployeeID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
			{Key: "event_id", Value: []byte(e.ID)},
		},
		Time: e.OccurredAt,
	}, nil
}

// NoopPublisher logs and drops events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, events ...Event) error {
	for _, e := range events {
		slog.Debug("Event publishing disabled, dropping event", "type", e.Type, "employee_id", e.EmployeeID)
	}
	return nil
}

func (NoopPublisher) Close() error { return nil }
