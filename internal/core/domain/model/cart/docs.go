// Package cart provides the Cart aggregate: the lines a customer intends to
// buy before checkout.
//
// Key business rules:
//   - one line per product, quantities accumulate on repeated adds
//   - the unit price captured on add is a snapshot and stays fixed
//   - setting a quantity of zero or less removes the line
//   - removing an absent line is not an error
//   - a checkout removes only the committed lines
package cart
