// Package eventbus publishes order lifecycle events to a Redis Stream.
// The stream gives at-least-once delivery to the notification pipeline:
// consumers read through a consumer group and acknowledge after processing.
package eventbus

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"foodorders/internal/core/domain/events"
)

// DefaultStream is the stream name used when none is configured.
const DefaultStream = "order-events"

// payloadField is the stream entry field carrying the JSON-encoded event.
const payloadField = "event"

// maxStreamLen caps the stream so unconsumed history cannot grow without
// bound. Trimming is approximate, which is cheaper for Redis.
const maxStreamLen = 100_000

// RedisEventPublisher implements EventPublisher on top of a Redis Stream.
type RedisEventPublisher struct {
	client *redis.Client
	stream string
}

// NewRedisEventPublisher creates a publisher writing to the given stream.
// An empty stream name falls back to DefaultStream.
func NewRedisEventPublisher(client *redis.Client, stream string) *RedisEventPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisEventPublisher{client: client, stream: stream}
}

// Stream returns the stream name the publisher writes to.
func (p *RedisEventPublisher) Stream() string {
	return p.stream
}

// Publish appends the event to the stream as a JSON document.
func (p *RedisEventPublisher) Publish(ctx context.Context, event events.LifecycleEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]any{payloadField: raw},
	}).Err()
}
