// Package order provides the Order aggregate root and its lifecycle.
//
// The package includes:
//   - Order: immutable priced lines, a server-computed total and a status
//   - LineItem: product, quantity, unit price at checkout and subtotal
//   - Status: PendingPayment -> Paid | Cancelled, both terminal
//   - Event: facts recorded on creation, payment and cancellation
//
// Key business rules:
//   - orders are only created by checkout and never deleted
//   - pay or cancel on a terminal order returns errs.InvalidTransitionError
//   - a paid order cannot be cancelled
//   - stock is restored only by a successful cancellation
package order
