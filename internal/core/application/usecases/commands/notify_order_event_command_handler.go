package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"foodorders/internal/core/domain/events"
	"foodorders/internal/core/domain/model/connection"
	"foodorders/internal/core/ports"
)

// DefaultSendTimeout bounds how long a single push delivery may take so
// that one stuck connection cannot stall the whole fanout.
const DefaultSendTimeout = 5 * time.Second

// FanoutResult reports how a fanout went. Failed counts both transient
// delivery errors and connections the gateway reported as gone.
type FanoutResult struct {
	Sent   int
	Failed int
}

// humanMessages maps an order status to the text shown in the notification.
var humanMessages = map[string]string{
	"CREATED":    "Your order has been received",
	"COOKING":    "Your order is being prepared",
	"READY":      "Your order is ready",
	"PACKAGED":   "Your order has been packaged",
	"ON_THE_WAY": "Your order is on the way",
	"DELIVERED":  "Your order has been delivered",
	"CANCELLED":  "Your order has been cancelled",
}

// notificationMessage is the payload pushed to each connection. The top
// level carries what a client needs to render a toast; the full event
// rides along under data for clients that update local state from it.
type notificationMessage struct {
	Type      string                `json:"type"`
	OrderID   string                `json:"orderId"`
	Status    string                `json:"status"`
	Message   string                `json:"message"`
	Timestamp time.Time             `json:"timestamp"`
	Data      events.LifecycleEvent `json:"data"`
}

// NotifyOrderEventCommandHandler fans a lifecycle event out to every
// connection that should hear about it: the ordering customer's devices
// plus all staff devices observing the order's tenant.
//
// Fanout is best-effort. Individual delivery failures are counted, never
// escalated, and a connection the gateway reports as gone is dropped from
// the registry so it is not targeted again.
type NotifyOrderEventCommandHandler struct {
	registry    ports.ConnectionRegistry
	sender      ports.NotificationSender
	logger      *zap.Logger
	sendTimeout time.Duration
}

// NewNotifyOrderEventCommandHandler creates a handler for notification
// fanout. A non-positive sendTimeout falls back to DefaultSendTimeout.
func NewNotifyOrderEventCommandHandler(
	registry ports.ConnectionRegistry,
	sender ports.NotificationSender,
	logger *zap.Logger,
	sendTimeout time.Duration,
) NotifyOrderEventCommandHandler {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}

	return NotifyOrderEventCommandHandler{
		registry:    registry,
		sender:      sender,
		logger:      logger,
		sendTimeout: sendTimeout,
	}
}

// Handle delivers the event to all interested connections concurrently and
// reports how many deliveries succeeded and failed. The returned error is
// non-nil only when the recipient set could not be determined at all.
func (h *NotifyOrderEventCommandHandler) Handle(ctx context.Context, cmd NotifyOrderEventCommand) (FanoutResult, error) {
	if err := cmd.Validate(); err != nil {
		return FanoutResult{}, err
	}

	event := cmd.Event()

	targets, err := h.collectTargets(ctx, event)
	if err != nil {
		return FanoutResult{}, err
	}
	if len(targets) == 0 {
		return FanoutResult{}, nil
	}

	status := statusFor(event)
	payload, err := json.Marshal(notificationMessage{
		Type:      event.EventType,
		OrderID:   event.OrderID,
		Status:    status,
		Message:   messageFor(status),
		Timestamp: event.Timestamp,
		Data:      event,
	})
	if err != nil {
		return FanoutResult{}, err
	}

	var (
		wg     sync.WaitGroup
		sent   atomic.Int64
		failed atomic.Int64
	)

	for _, target := range targets {
		wg.Add(1)
		go func(conn *connection.Connection) {
			defer wg.Done()

			sendCtx, cancel := context.WithTimeout(ctx, h.sendTimeout)
			defer cancel()

			err := h.sender.Send(sendCtx, conn.ID(), payload)
			if err == nil {
				sent.Add(1)
				return
			}

			failed.Add(1)
			if errors.Is(err, ports.ErrConnectionGone) {
				h.dropGoneConnection(ctx, conn.ID())
				return
			}

			h.logger.Warn("notification delivery failed",
				zap.String("connectionId", conn.ID()),
				zap.String("orderId", event.OrderID),
				zap.Error(err),
			)
		}(target)
	}

	wg.Wait()

	return FanoutResult{
		Sent:   int(sent.Load()),
		Failed: int(failed.Load()),
	}, nil
}

// collectTargets gathers the customer's connections and the tenant staff
// connections, deduplicated by connection identifier.
func (h *NotifyOrderEventCommandHandler) collectTargets(
	ctx context.Context,
	event events.LifecycleEvent,
) ([]*connection.Connection, error) {
	ownerConns, err := h.registry.FindByUser(ctx, event.UserID)
	if err != nil {
		return nil, err
	}

	staffConns, err := h.registry.FindByTenant(ctx, event.TenantID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(ownerConns)+len(staffConns))
	targets := make([]*connection.Connection, 0, len(ownerConns)+len(staffConns))
	for _, conn := range append(ownerConns, staffConns...) {
		if _, ok := seen[conn.ID()]; ok {
			continue
		}
		seen[conn.ID()] = struct{}{}
		targets = append(targets, conn)
	}

	return targets, nil
}

func (h *NotifyOrderEventCommandHandler) dropGoneConnection(ctx context.Context, connectionID string) {
	if err := h.registry.Unregister(ctx, connectionID); err != nil {
		h.logger.Warn("failed to drop gone connection",
			zap.String("connectionId", connectionID),
			zap.Error(err),
		)
		return
	}

	h.logger.Info("dropped gone connection", zap.String("connectionId", connectionID))
}

// statusFor resolves the status a notification is about: the transition
// target for status changes, the current status otherwise.
func statusFor(event events.LifecycleEvent) string {
	if event.NewStatus != "" {
		return event.NewStatus
	}
	return event.Status
}

// messageFor picks the human-readable text for a status, falling back to a
// generic line for statuses without a dedicated message.
func messageFor(status string) string {
	if message, ok := humanMessages[status]; ok {
		return message
	}

	return fmt.Sprintf("Your order status has been updated to %s", status)
}
