// Package kernel provides the value objects shared by every aggregate in the
// shop core.
//
// The package includes:
//   - UUID: identifier for carts, orders, products and customers
//   - Money: exact non-negative decimal amount with two fractional digits
//   - DomainEvent: the contract aggregates use to expose recorded facts
//
// Value objects are immutable; their zero values are invalid and report so
// through Validate.
package kernel
