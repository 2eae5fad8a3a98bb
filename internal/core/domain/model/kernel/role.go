package kernel

import (
	"fmt"

	"foodorders/internal/pkg/errs"
)

// Role is a closed enumeration of the identities the platform recognizes.
// Customers carry RoleUser; COOK, DISPATCHER and ADMIN are staff roles
// scoped to a tenant. Modelling roles as a tagged enum (rather than raw
// strings) makes an invalid role unrepresentable past the parsing boundary.
type Role int

const (
	// RoleUnknown is the invalid zero value, catching uninitialized roles.
	RoleUnknown Role = iota

	// RoleUser is a platform customer who places orders.
	RoleUser

	// RoleCook prepares orders in a tenant's kitchen.
	RoleCook

	// RoleDispatcher packages and hands orders to delivery.
	RoleDispatcher

	// RoleAdmin manages a tenant and may perform any staff operation.
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUser:       "USER",
		RoleCook:       "COOK",
		RoleDispatcher: "DISPATCHER",
		RoleAdmin:      "ADMIN",
	}
}

// RoleFromString parses a wire-format role token such as "COOK".
func RoleFromString(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if str == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// String returns the wire-format token for the role, or "UNKNOWN" for
// invalid values. Implements fmt.Stringer.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate returns an error for roles outside the defined enumeration.
func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// IsStaff reports whether the role is one of the tenant staff roles that may
// operate on orders and receive tenant-wide notifications.
func (r Role) IsStaff() bool {
	return r == RoleCook || r == RoleDispatcher || r == RoleAdmin
}
