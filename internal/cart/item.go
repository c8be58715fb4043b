package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
)

// Product is the catalog snapshot a cart line or wishlist entry carries. It is
// copied at add time and is not refreshed when the catalog row changes.
type Product struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	SellerID      *uuid.UUID       `json:"seller_id,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Fabric        *string          `json:"fabric,omitempty"`
	Color         *string          `json:"color,omitempty"`
	Pattern       *string          `json:"pattern,omitempty"`
	ImageURL      string           `json:"image_url"`
}

// Item is a cart line. Quantity is always >= 1 while the line exists.
type Item struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal is price × quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ProductFromModel snapshots a catalog row.
func ProductFromModel(m models.Product) Product {
	p := Product{
		ID:       m.ID,
		Name:     m.Name,
		Price:    m.Price,
		SellerID: m.SellerID,
		Category: m.Category,
		Fabric:   m.Fabric,
		Color:    m.Color,
		Pattern:  m.Pattern,
		ImageURL: m.ImageURL,
	}
	if m.OriginalPrice.Valid {
		original := m.OriginalPrice.Decimal
		p.OriginalPrice = &original
	}
	return p
}
