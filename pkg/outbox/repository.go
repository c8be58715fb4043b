package outbox

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
)

// Repository reads and writes outbox_events. There is no relay in this
// service; the hosted database's change feed picks rows up after commit.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) insert(ctx context.Context, tx *gorm.DB, row *models.OutboxEvent) error {
	return tx.WithContext(ctx).Create(row).Error
}

// ListForAggregate returns every event recorded for one aggregate in the
// order they were written.
func (r *Repository) ListForAggregate(ctx context.Context, aggregateID uuid.UUID) ([]models.OutboxEvent, error) {
	var rows []models.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
