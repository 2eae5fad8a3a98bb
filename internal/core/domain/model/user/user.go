// Package user provides the read-side customer record consumed during order
// intake. Registration and authentication live in an external identity
// provider; intake only needs the contact snapshot.
package user

import (
	"errors"

	"foodorders/internal/pkg/errs"
)

// ErrUserIsNotConstructed is returned when a User was not created through
// the NewUser factory.
var ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")

// User is the customer profile at the time an order is placed.
type User struct {
	id          string
	firstName   string
	lastName    string
	email       string
	phoneNumber string
	address     string

	isConstructed bool
}

// NewUser creates a validated customer record.
func NewUser(id, firstName, lastName, email, phoneNumber, address string) (*User, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("userId")
	}

	return &User{
		id:            id,
		firstName:     firstName,
		lastName:      lastName,
		email:         email,
		phoneNumber:   phoneNumber,
		address:       address,
		isConstructed: true,
	}, nil
}

// Validate ensures the User was created through NewUser.
func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

// ID returns the user identifier.
func (u *User) ID() string { return u.id }

// FirstName returns the user's first name.
func (u *User) FirstName() string { return u.firstName }

// LastName returns the user's last name.
func (u *User) LastName() string { return u.lastName }

// Email returns the user's email address.
func (u *User) Email() string { return u.email }

// PhoneNumber returns the user's phone number.
func (u *User) PhoneNumber() string { return u.phoneNumber }

// Address returns the user's default address.
func (u *User) Address() string { return u.address }
