package sellers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
)

// Repository reads seller payment profiles for checkout.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FetchPaymentProfiles returns the active profiles among sellerIDs. Sellers
// without an active profile are simply absent from the result.
func (r *Repository) FetchPaymentProfiles(ctx context.Context, sellerIDs []uuid.UUID) ([]models.SellerPaymentProfile, error) {
	ids := dedupe(sellerIDs)
	if len(ids) == 0 {
		return []models.SellerPaymentProfile{}, nil
	}
	var profiles []models.SellerPaymentProfile
	err := r.db.WithContext(ctx).
		Where("seller_id IN ? AND is_active = ?", ids, true).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
