package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
)

const (
	envelopeSource  = "sellerbazaar"
	envelopeVersion = 1
)

// ActorRef is the shopper whose request produced the event. System jobs
// leave it nil.
type ActorRef struct {
	ShopperID uuid.UUID `json:"shopperId"`
}

// Envelope is what lands in outbox_events.payload. It repeats the routing
// columns so a consumer reading only the payload can still dispatch it.
type Envelope struct {
	Version       int                       `json:"version"`
	EventID       uuid.UUID                 `json:"eventId"`
	Source        string                    `json:"source"`
	Type          enums.OutboxEventType     `json:"type"`
	AggregateType enums.OutboxAggregateType `json:"aggregateType"`
	AggregateID   uuid.UUID                 `json:"aggregateId"`
	OccurredAt    time.Time                 `json:"occurredAt"`
	Actor         *ActorRef                 `json:"actor,omitempty"`
	Data          json.RawMessage           `json:"data"`
}

func newEnvelope(event DomainEvent, now time.Time) (Envelope, error) {
	aggregate, err := event.EventType.Aggregate()
	if err != nil {
		return Envelope{}, err
	}
	if event.AggregateID == uuid.Nil {
		return Envelope{}, fmt.Errorf("%s: aggregate id is required", event.EventType)
	}
	data, err := json.Marshal(event.Data)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: encode data: %w", event.EventType, err)
	}

	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = now
	}
	return Envelope{
		Version:       envelopeVersion,
		EventID:       uuid.New(),
		Source:        envelopeSource,
		Type:          event.EventType,
		AggregateType: aggregate,
		AggregateID:   event.AggregateID,
		OccurredAt:    occurred.UTC(),
		Actor:         event.Actor,
		Data:          data,
	}, nil
}
