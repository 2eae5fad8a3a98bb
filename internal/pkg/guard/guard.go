package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error was provided for an unconstructed object.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures value objects, commands and queries are only
// created through their designated constructor functions. A zero-value
// struct fails validation because its guard was never armed.
//
// Embed the guard in a struct and arm it in the constructor:
//
//	type Command struct {
//	    field string
//	    guard ConstructorGuard
//	}
//
//	func NewCommand(field string) (Command, error) {
//	    return Command{field: field, guard: NewConstructorGuard()}, nil
//	}
//
//	func (c Command) Validate() error {
//	    return c.guard.Validate(ErrCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking an object as properly
// constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the guarded object went through its constructor.
// Otherwise it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
