package order

import (
	"time"

	"eshop/internal/core/domain/model/kernel"
)

const (
	EventCreated   = "order.created"
	EventPaid      = "order.paid"
	EventCancelled = "order.cancelled"
)

// Event is published for every order state change. Items are only carried
// on creation and cancellation, where consumers need the quantities.
type Event struct {
	ID         kernel.UUID  `json:"event_id"`
	Name       string       `json:"event_name"`
	OrderID    kernel.UUID  `json:"order_id"`
	CustomerID kernel.UUID  `json:"customer_id"`
	Status     string       `json:"status"`
	Total      kernel.Money `json:"total_amount"`
	Items      []EventItem  `json:"items,omitempty"`
	At         time.Time    `json:"occurred_at"`
}

type EventItem struct {
	ProductID kernel.UUID  `json:"product_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice kernel.Money `json:"unit_price"`
}

func (e Event) EventID() kernel.UUID {
	return e.ID
}

func (e Event) EventName() string {
	return e.Name
}

func (e Event) AggregateID() kernel.UUID {
	return e.OrderID
}

func (e Event) OccurredAt() time.Time {
	return e.At
}

func (o *Order) record(name string, at time.Time, withItems bool) {
	event := Event{
		ID:         kernel.NewUUID(),
		Name:       name,
		OrderID:    o.id,
		CustomerID: o.customerID,
		Status:     o.status.String(),
		Total:      o.total,
		At:         at,
	}
	if withItems {
		event.Items = make([]EventItem, 0, len(o.items))
		for _, item := range o.items {
			event.Items = append(event.Items, EventItem{
				ProductID: item.ProductID(),
				Quantity:  item.Quantity(),
				UnitPrice: item.UnitPrice(),
			})
		}
	}
	o.events = append(o.events, event)
}
