// Package kernel provides the shared value objects used across all domain
// aggregates of the food-order service.
//
// The package includes:
//   - UUID: an immutable identifier wrapping github.com/google/uuid
//   - Money: exact decimal amounts stored as integer cents
//   - Role: the closed enumeration of platform roles
//
// All value objects are immutable, validate themselves, and can only reach
// a valid state through their constructor functions.
package kernel
