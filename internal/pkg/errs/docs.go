// Package errs provides standardized error types for the food-order service.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// Each error type follows the same shape:
//   - A sentinel error variable (e.g. ErrValueIsRequired)
//   - A struct type carrying the error details
//   - Constructor functions with and without a cause
//   - Error() for formatting and Unwrap() for errors.Is classification
//
// The sentinels form the error taxonomy the transport layer maps to wire
// codes: invalid/required/out-of-range values are validation failures,
// ErrObjectNotFound is a missing entity, ErrPermissionDenied is an
// authorization failure, and ErrConcurrentModification is a retryable
// conditional-update conflict. Anything else is an internal error.
package errs
