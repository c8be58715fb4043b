package enums

import "fmt"

// OutboxAggregateType is the kind of entity an outbox event describes.
type OutboxAggregateType string

const (
	AggregateOrder OutboxAggregateType = "order"
)

// OutboxEventType names a domain event written to outbox_events. Each type
// belongs to exactly one aggregate.
type OutboxEventType string

const (
	// EventOrderPlaced is written in the same transaction as a new order.
	EventOrderPlaced OutboxEventType = "order.placed"
	// EventOrderIncomplete is written when reconciliation gives up on an
	// order whose seller lines never landed.
	EventOrderIncomplete OutboxEventType = "order.incomplete"
)

var eventAggregates = map[OutboxEventType]OutboxAggregateType{
	EventOrderPlaced:     AggregateOrder,
	EventOrderIncomplete: AggregateOrder,
}

func (e OutboxEventType) IsValid() bool {
	_, ok := eventAggregates[e]
	return ok
}

// Aggregate returns the aggregate type the event is recorded against.
func (e OutboxEventType) Aggregate() (OutboxAggregateType, error) {
	agg, ok := eventAggregates[e]
	if !ok {
		return "", fmt.Errorf("unknown outbox event type %q", e)
	}
	return agg, nil
}
