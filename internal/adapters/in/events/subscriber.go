// Package events consumes order lifecycle events from the Redis Stream and
// drives the notification fanout. Reading through a consumer group gives
// at-least-once delivery; entries are acknowledged only after the fanout
// handler returns.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"foodorders/internal/core/application/usecases/commands"
	domainevents "foodorders/internal/core/domain/events"
)

const (
	// DefaultGroup is the consumer group name used when none is configured.
	DefaultGroup = "notification-fanout"

	// payloadField is the stream entry field carrying the JSON-encoded event.
	payloadField = "event"

	// readBlock bounds a single blocking read so the loop can observe
	// context cancellation between batches.
	readBlock = 5 * time.Second

	// readBatch is the maximum number of entries claimed per read.
	readBatch = 16
)

// StreamSubscriber reads lifecycle events from a Redis Stream and hands
// each one to the notification fanout handler.
type StreamSubscriber struct {
	client   *redis.Client
	handler  commands.NotifyOrderEventCommandHandler
	logger   *zap.Logger
	stream   string
	group    string
	consumer string

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewStreamSubscriber creates a subscriber for the given stream and group.
// An empty group falls back to DefaultGroup.
func NewStreamSubscriber(
	client *redis.Client,
	handler commands.NotifyOrderEventCommandHandler,
	logger *zap.Logger,
	stream, group, consumer string,
) *StreamSubscriber {
	if group == "" {
		group = DefaultGroup
	}

	return &StreamSubscriber{
		client:   client,
		handler:  handler,
		logger:   logger,
		stream:   stream,
		group:    group,
		consumer: consumer,
		done:     make(chan struct{}),
	}
}

// Start creates the consumer group if needed and launches the read loop.
func (s *StreamSubscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !isGroupExists(err) {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.readLoop(loopCtx)

	s.logger.Info("event subscriber started",
		zap.String("stream", s.stream),
		zap.String("group", s.group),
		zap.String("consumer", s.consumer),
	)
	return nil
}

// Stop cancels the read loop and waits for it to drain.
func (s *StreamSubscriber) Stop() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		<-s.done
	})
}

func (s *StreamSubscriber) readLoop(ctx context.Context) {
	defer close(s.done)

	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.group,
			Consumer: s.consumer,
			Streams:  []string{s.stream, ">"},
			Count:    readBatch,
			Block:    readBlock,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			s.logger.Warn("event stream read failed", zap.Error(err))
			continue
		}

		for _, stream := range streams {
			for _, entry := range stream.Messages {
				s.process(ctx, entry)
			}
		}
	}
}

// process fans one stream entry out and acknowledges it. Malformed entries
// are acknowledged too: replaying them can never succeed, and leaving them
// pending would block the group forever.
func (s *StreamSubscriber) process(ctx context.Context, entry redis.XMessage) {
	event, err := decodeEvent(entry)
	if err != nil {
		s.logger.Warn("discarding malformed event entry",
			zap.String("entryId", entry.ID),
			zap.Error(err),
		)
		s.ack(ctx, entry.ID)
		return
	}

	cmd, err := commands.NewNotifyOrderEventCommand(event)
	if err != nil {
		s.logger.Warn("discarding invalid event",
			zap.String("entryId", entry.ID),
			zap.String("eventType", event.EventType),
			zap.Error(err),
		)
		s.ack(ctx, entry.ID)
		return
	}

	result, err := s.handler.Handle(ctx, cmd)
	if err != nil {
		// Leave the entry pending: the recipient set could not be
		// determined and a redelivery may succeed.
		s.logger.Warn("notification fanout failed",
			zap.String("entryId", entry.ID),
			zap.String("orderId", event.OrderID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("notification fanout completed",
		zap.String("orderId", event.OrderID),
		zap.String("eventType", event.EventType),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
	s.ack(ctx, entry.ID)
}

func (s *StreamSubscriber) ack(ctx context.Context, entryID string) {
	if err := s.client.XAck(ctx, s.stream, s.group, entryID).Err(); err != nil {
		s.logger.Warn("failed to acknowledge event entry",
			zap.String("entryId", entryID),
			zap.Error(err),
		)
	}
}

func decodeEvent(entry redis.XMessage) (domainevents.LifecycleEvent, error) {
	var event domainevents.LifecycleEvent

	raw, ok := entry.Values[payloadField]
	if !ok {
		return event, errors.New("stream entry has no event field")
	}

	payload, ok := raw.(string)
	if !ok {
		return event, errors.New("stream entry event field is not a string")
	}

	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return event, err
	}

	return event, nil
}

func isGroupExists(err error) bool {
	return err != nil && strings.Contains(err.Error(), "BUSYGROUP")
}
