package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink publishes journaled events to a Kafka topic, keyed by policy id so
// per-policy ordering survives partitioning.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink dials the brokers and returns a sink for the given topic.
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaSink{client: client, topic: topic}, nil
}

// wirePayload is the JSON structure published to Kafka. Field names are the
// external contract for downstream consumers.
type wirePayload struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Timestamp    string `json:"timestamp"`
	Actor        string `json:"actor,omitempty"`
	PolicyID     uint64 `json:"policy_id,omitempty"`
	ClaimID      uint64 `json:"claim_id,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Amount       int64  `json:"amount,omitempty"`
	Premium      int64  `json:"premium,omitempty"`
	DurationDays uint32 `json:"duration_days,omitempty"`
	Capability   string `json:"capability,omitempty"`
	OracleDataID uint64 `json:"oracle_data_id,omitempty"`
}

func (s *KafkaSink) Publish(ctx context.Context, event Event) error {
	payload := wirePayload{
		ID:           event.ID,
		Kind:         string(event.Kind),
		Timestamp:    event.Timestamp.Format(time.RFC3339Nano),
		Actor:        event.Actor.String(),
		PolicyID:     uint64(event.PolicyID),
		ClaimID:      uint64(event.ClaimID),
		Subject:      event.Subject.String(),
		Amount:       event.Amount.Int64(),
		Premium:      event.Premium.Int64(),
		DurationDays: event.DurationDays,
		Capability:   event.Capability.String(),
		OracleDataID: uint64(event.OracleDataID),
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.PolicyID.String()),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event %s: %w", event.ID, err)
	}
	return nil
}

func (s *KafkaSink) Close() {
	s.client.Close()
}
