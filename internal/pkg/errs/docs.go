// Package errs provides the error types shared across the shop core.
//
// Every type follows the same shape: a sentinel error variable, a struct with
// the details callers need to render an actionable message, New* constructors,
// Error() and Unwrap() so errors.Is matches the sentinel and errors.As recovers
// the details.
//
// Validation:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//
// Domain outcomes:
//   - ObjectNotFoundError: cart, order or product absent
//   - InsufficientStockError: the stock ledger refused a reservation
//   - InvalidTransitionError: pay or cancel on a terminal order
//
// Infrastructure:
//   - PersistenceError: storage failure; also matches its cause
package errs
