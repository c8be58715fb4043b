package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/pagination"
)

// Placer writes a new order header together with its seller lines. Checkout
// uses FindByIdempotencyKey to return the existing order on a retried submit.
type Placer interface {
	CreateOrder(ctx context.Context, order *models.Order, lines []models.OrderLine) error
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
}

// History serves a shopper's own orders. Lookups are always scoped by shopper
// so one shopper can never read another's order by id.
type History interface {
	FindByID(ctx context.Context, shopperID, orderID uuid.UUID) (*models.Order, error)
	ListByShopper(ctx context.Context, shopperID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error)
}

// Reconciler finds headers whose lines never landed and flags them.
type Reconciler interface {
	FindHeadersWithoutLines(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
	MarkIncomplete(ctx context.Context, orderID uuid.UUID, now time.Time) (bool, error)
}

// Repository is the gorm-backed store behind all three roles.
type Repository interface {
	Placer
	History
	Reconciler
	WithTx(tx *gorm.DB) Repository
}
