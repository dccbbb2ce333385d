package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink appends journaled events to a Redis stream for lightweight local
// consumers (dashboards, dev tooling) that do not warrant a Kafka subscription.
type RedisSink struct {
	client *redis.Client
	stream string
}

func NewRedisSink(client *redis.Client, stream string) *RedisSink {
	return &RedisSink{client: client, stream: stream}
}

func (s *RedisSink) Publish(ctx context.Context, event Event) error {
	values := map[string]any{
		"id":        event.ID,
		"kind":      string(event.Kind),
		"timestamp": event.Timestamp.Format(time.RFC3339Nano),
	}
	if !event.Actor.IsNil() {
		values["actor"] = event.Actor.String()
	}
	if !event.PolicyID.IsNil() {
		values["policy_id"] = uint64(event.PolicyID)
	}
	if !event.ClaimID.IsNil() {
		values["claim_id"] = uint64(event.ClaimID)
	}
	if !event.Subject.IsNil() {
		values["subject"] = event.Subject.String()
	}
	if event.Amount != 0 {
		values["amount"] = event.Amount.Int64()
	}
	if err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("xadd event %s: %w", event.ID, err)
	}
	return nil
}
