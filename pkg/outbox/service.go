package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

// ErrNoTransaction is returned when Emit is called outside a transaction.
var ErrNoTransaction = errors.New("outbox: emit requires the caller's transaction")

// DomainEvent is a fact about an aggregate. The aggregate type follows from
// EventType.
type DomainEvent struct {
	EventType   enums.OutboxEventType
	AggregateID uuid.UUID
	Actor       *ActorRef
	Data        any
	OccurredAt  time.Time
}

type Service struct {
	repo *Repository
	logg *logger.Logger
	now  func() time.Time
}

func NewService(repo *Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg, now: time.Now}
}

// Emit writes the event on tx so it commits or rolls back with the caller's
// own writes.
func (s *Service) Emit(ctx context.Context, tx *gorm.DB, event DomainEvent) error {
	if tx == nil {
		return ErrNoTransaction
	}
	envelope, err := newEnvelope(event, s.now())
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("%s: encode envelope: %w", event.EventType, err)
	}

	row := &models.OutboxEvent{
		ID:            envelope.EventID,
		EventType:     envelope.Type,
		AggregateType: envelope.AggregateType,
		AggregateID:   envelope.AggregateID,
		Payload:       payload,
	}
	if err := s.repo.insert(ctx, tx, row); err != nil {
		return fmt.Errorf("%s: insert outbox row: %w", event.EventType, err)
	}

	if s.logg != nil {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
			"event_id":     envelope.EventID.String(),
			"event_type":   string(envelope.Type),
			"aggregate_id": envelope.AggregateID.String(),
		}), "outbox event staged")
	}
	return nil
}
