package order

import (
	"fmt"

	"eshop/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	PendingPayment ──┬──> Paid
//	                 └──> Cancelled
//
// Paid and Cancelled are terminal.
type Status int

const (
	// Unknown is the zero value and never valid.
	Unknown Status = iota
	PendingPayment
	Paid
	Cancelled
)

var statusNames = map[Status]string{
	PendingPayment: "pending_payment",
	Paid:           "paid",
	Cancelled:      "cancelled",
}

// ParseStatus maps the persisted name back to a Status.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Paid || s == Cancelled
}

// CanTransitionTo reports whether target is reachable in one step.
func (s Status) CanTransitionTo(target Status) bool {
	return s == PendingPayment && (target == Paid || target == Cancelled)
}
