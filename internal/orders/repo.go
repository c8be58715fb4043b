package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// CreateOrder writes the header and then its lines. Callers run it inside a
// transaction so a header never commits without its lines.
func (r *repository) CreateOrder(ctx context.Context, order *models.Order, lines []models.OrderLine) error {
	if order == nil {
		return fmt.Errorf("order required")
	}
	if len(lines) == 0 {
		return fmt.Errorf("order %s has no lines", order.ID)
	}
	if err := r.db.WithContext(ctx).Omit("Lines").Create(order).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(&lines).Error; err != nil {
		return err
	}
	order.Lines = lines
	return nil
}

// FindByIdempotencyKey returns nil, nil when no order used the key.
func (r *repository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", orderLinesByNumber).
		Where("idempotency_key = ?", key).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByID returns nil, nil when the order does not exist for the shopper.
func (r *repository) FindByID(ctx context.Context, shopperID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", orderLinesByNumber).
		Where("id = ? AND shopper_id = ?", orderID, shopperID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByShopper returns headers newest first; limit is the raw row count to fetch.
func (r *repository) ListByShopper(ctx context.Context, shopperID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("shopper_id = ?", shopperID)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.At, cursor.ID)
	}
	var rows []models.Order
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindHeadersWithoutLines finds placed orders created before cutoff that have
// no order lines.
func (r *repository) FindHeadersWithoutLines(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.OrderStatusPlaced, cutoff).
		Where("NOT EXISTS (SELECT 1 FROM order_lines ol WHERE ol.order_id = orders.id)").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// MarkIncomplete flips a placed order to incomplete. It reports false when the
// order was no longer placed.
func (r *repository) MarkIncomplete(ctx context.Context, orderID uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusPlaced).
		UpdateColumns(map[string]any{
			"status":     enums.OrderStatusIncomplete,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func orderLinesByNumber(db *gorm.DB) *gorm.DB {
	return db.Order("line_number ASC")
}
