package commands

import (
	"errors"

	"foodorders/internal/pkg/errs"
	"foodorders/internal/pkg/guard"
)

var ErrUnregisterConnectionCommandIsNotConstructed = errors.New(
	"UnregisterConnectionCommand must be created via NewUnregisterConnectionCommand constructor",
)

// UnregisterConnectionCommand represents a client device dropping its push
// channel.
type UnregisterConnectionCommand struct { //nolint:recvcheck //using for validation
	connectionID string

	guard guard.ConstructorGuard
}

// NewUnregisterConnectionCommand creates a command to remove a push
// channel registration.
func NewUnregisterConnectionCommand(connectionID string) (UnregisterConnectionCommand, error) {
	if connectionID == "" {
		return UnregisterConnectionCommand{}, errs.NewValueIsRequiredError("connectionId")
	}

	return UnregisterConnectionCommand{
		connectionID: connectionID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UnregisterConnectionCommand) Validate() error {
	return c.guard.Validate(ErrUnregisterConnectionCommandIsNotConstructed)
}

// ConnectionID returns the connection to remove.
func (c UnregisterConnectionCommand) ConnectionID() string {
	return c.connectionID
}
