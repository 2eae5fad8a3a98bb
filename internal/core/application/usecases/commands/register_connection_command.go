package commands

import (
	"errors"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
	"foodorders/internal/pkg/guard"
)

var ErrRegisterConnectionCommandIsNotConstructed = errors.New(
	"RegisterConnectionCommand must be created via NewRegisterConnectionCommand constructor",
)

// RegisterConnectionCommand represents a client device announcing a push
// channel on which it wants to receive order notifications.
type RegisterConnectionCommand struct { //nolint:recvcheck //using for validation
	connectionID string
	userID       string
	tenantID     string
	role         kernel.Role

	guard guard.ConstructorGuard
}

// NewRegisterConnectionCommand creates a command to register a push
// channel. Staff roles must name the tenant whose orders they observe.
func NewRegisterConnectionCommand(connectionID, userID, tenantID string, role kernel.Role) (RegisterConnectionCommand, error) {
	registerCommand := RegisterConnectionCommand{
		tenantID: tenantID,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		registerCommand.setConnectionID(connectionID),
		registerCommand.setUserID(userID),
		registerCommand.setRole(role),
	); err != nil {
		return RegisterConnectionCommand{}, err
	}

	return registerCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterConnectionCommand) Validate() error {
	return c.guard.Validate(ErrRegisterConnectionCommandIsNotConstructed)
}

// ConnectionID returns the gateway connection identifier.
func (c RegisterConnectionCommand) ConnectionID() string {
	return c.connectionID
}

// UserID returns the connecting user.
func (c RegisterConnectionCommand) UserID() string {
	return c.userID
}

// TenantID returns the observed tenant for staff connections.
func (c RegisterConnectionCommand) TenantID() string {
	return c.tenantID
}

// Role returns the role the channel is registered with.
func (c RegisterConnectionCommand) Role() kernel.Role {
	return c.role
}

func (c *RegisterConnectionCommand) setConnectionID(connectionID string) error {
	if connectionID == "" {
		return errs.NewValueIsRequiredError("connectionId")
	}

	c.connectionID = connectionID
	return nil
}

func (c *RegisterConnectionCommand) setUserID(userID string) error {
	if userID == "" {
		return errs.NewValueIsRequiredError("userId")
	}

	c.userID = userID
	return nil
}

func (c *RegisterConnectionCommand) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	c.role = role
	return nil
}
