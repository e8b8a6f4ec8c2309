// Package services provides domain services that coordinate aggregates with
// the stock ledger.
//
// The package includes:
//   - StockReserver: all-or-nothing stock reservation for a set of cart lines,
//     in deterministic product order, with rollback on refusal
package services
