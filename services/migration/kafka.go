package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventPublisher emits per-owner migration outcomes for downstream services.
type EventPublisher interface {
	PublishOutcome(ctx context.Context, outcome *OwnerOutcome) error
}

// TenantMigratedEvent is published after an owner's pipeline finishes, so the
// platform's other services can react to tenant activation (or alert on a
// failed one).
type TenantMigratedEvent struct {
	OwnerID     uint                     `json:"owner_id"`
	Email       string                   `json:"email"`
	DBName      string                   `json:"db_name,omitempty"`
	State       OwnerState               `json:"state"`
	FailedStage string                   `json:"failed_stage,omitempty"`
	Counts      map[CollectionKind]int64 `json:"counts,omitempty"`
	Timestamp   time.Time                `json:"timestamp"`
}

// KafkaPublisher writes migration outcomes to the tenant-migrations topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the given broker.
func NewKafkaPublisher(broker string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  "tenant-migrations",
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: writer}
}

// PublishOutcome sends one owner's outcome, keyed by owner id so events for
// the same tenant stay ordered.
func (p *KafkaPublisher) PublishOutcome(ctx context.Context, outcome *OwnerOutcome) error {
	event := TenantMigratedEvent{
		OwnerID:     outcome.OwnerID,
		Email:       outcome.Email,
		DBName:      outcome.DBName,
		State:       outcome.State,
		FailedStage: outcome.FailedStage,
		Counts:      outcome.Counts,
		Timestamp:   time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal migration event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(outcome.OwnerID), 10)),
		Value: payload,
	})
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}
