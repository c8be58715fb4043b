package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
)

// OutboxEvent is one row of outbox_events. Rows are written in the same
// transaction as the order change they describe; PublishedAt is set by
// whatever drains the table.
type OutboxEvent struct {
	ID            uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	EventType     enums.OutboxEventType     `gorm:"column:event_type;not null"`
	AggregateType enums.OutboxAggregateType `gorm:"column:aggregate_type;not null"`
	AggregateID   uuid.UUID                 `gorm:"column:aggregate_id;type:uuid;not null"`
	Payload       json.RawMessage           `gorm:"column:payload;type:jsonb;not null"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime"`
	PublishedAt   *time.Time                `gorm:"column:published_at"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

func (e OutboxEvent) Pending() bool {
	return e.PublishedAt == nil
}

// DecodePayload unmarshals the stored envelope into dest.
func (e OutboxEvent) DecodePayload(dest any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("outbox event %s: empty payload", e.ID)
	}
	if err := json.Unmarshal(e.Payload, dest); err != nil {
		return fmt.Errorf("outbox event %s: %w", e.ID, err)
	}
	return nil
}
