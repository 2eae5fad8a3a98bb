package ports

import (
	"context"

	"foodorders/internal/core/domain/model/user"
)

// UserRepository defines the read contract for customer profiles. Intake
// uses it to snapshot contact details into new orders.
type UserRepository interface {
	// Get retrieves a customer profile by identifier.
	// Returns errs.ObjectNotFoundError when the user is unknown.
	Get(ctx context.Context, id string) (*user.User, error)
}
