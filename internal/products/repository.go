package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
)

// Repository is the read side of the catalog. Sellers edit products from the
// back office; this service only looks them up.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// listed limits a query to products a shopper may still buy.
func listed(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// FindActiveByID loads one buyable product. A missing row and a deactivated
// one look the same to callers.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "product_id", "is required")
	}

	var product models.Product
	err := r.db.WithContext(ctx).
		Scopes(listed).
		Where("id = ?", id).
		Take(&product).Error
	switch {
	case err == nil:
		return &product, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Field(pkgerrors.CodeNotFound, "product_id", "is not available")
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
}
