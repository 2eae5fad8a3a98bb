// Package order provides the Order aggregate and its lifecycle state
// machine for the multi-tenant food-order service.
//
// The package includes:
//   - Order: the aggregate root owning pricing snapshots, the status
//     timeline, and sticky staff assignments
//   - Item: an order line priced from the catalog at order time
//   - Status: the closed enumeration of lifecycle states
//   - TransitionPolicy: the pluggable rule set deciding which transitions
//     are accepted, with PermissivePolicy as the default
//
// Key business rules:
//   - An order's total is always the exact sum of its item subtotals
//   - The estimated preparation time is the maximum across items, because
//     the kitchen prepares lines concurrently
//   - The first actor to move an order to COOKING becomes its cook; the
//     first to PACKAGED or ON_THE_WAY becomes its dispatcher
//   - DELIVERED and CANCELLED are terminal and stamp resolvedAt once
//   - Staff can only act on orders inside their own tenant
package order
