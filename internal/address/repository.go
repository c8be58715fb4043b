package address

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
)

// Repository persists the shopper address book.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListByShopper returns the default address first, then oldest first.
func (r *Repository) ListByShopper(ctx context.Context, shopperID uuid.UUID) ([]models.SavedAddress, error) {
	var rows []models.SavedAddress
	err := r.db.WithContext(ctx).
		Where("shopper_id = ?", shopperID).
		Order("is_default DESC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// FindByID returns nil, nil when the address does not exist for this shopper.
func (r *Repository) FindByID(ctx context.Context, shopperID, id uuid.UUID) (*models.SavedAddress, error) {
	var row models.SavedAddress
	err := r.db.WithContext(ctx).
		Where("id = ? AND shopper_id = ?", id, shopperID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// FindDefault returns nil, nil when the shopper has no default address.
func (r *Repository) FindDefault(ctx context.Context, shopperID uuid.UUID) (*models.SavedAddress, error) {
	var row models.SavedAddress
	err := r.db.WithContext(ctx).
		Where("shopper_id = ? AND is_default = ?", shopperID, true).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CountByShopper(ctx context.Context, shopperID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SavedAddress{}).
		Where("shopper_id = ?", shopperID).
		Count(&count).Error
	return count, err
}

func (r *Repository) Create(ctx context.Context, row *models.SavedAddress) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// ClearDefault unsets the default flag on every address of the shopper.
func (r *Repository) ClearDefault(ctx context.Context, shopperID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.SavedAddress{}).
		Where("shopper_id = ? AND is_default = ?", shopperID, true).
		Update("is_default", false).Error
}
