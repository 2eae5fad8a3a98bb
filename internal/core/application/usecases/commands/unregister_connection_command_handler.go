package commands

import (
	"context"

	"foodorders/internal/core/ports"
)

// UnregisterConnectionCommandHandler removes a push channel from the
// connection registry. Removal is idempotent: dropping an unknown or
// already-expired connection succeeds.
type UnregisterConnectionCommandHandler struct {
	registry ports.ConnectionRegistry
}

// NewUnregisterConnectionCommandHandler creates a handler for connection
// removal.
func NewUnregisterConnectionCommandHandler(registry ports.ConnectionRegistry) UnregisterConnectionCommandHandler {
	return UnregisterConnectionCommandHandler{registry: registry}
}

// Handle removes the connection registration.
func (h *UnregisterConnectionCommandHandler) Handle(ctx context.Context, cmd UnregisterConnectionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.registry.Unregister(ctx, cmd.ConnectionID())
}
