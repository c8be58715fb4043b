package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is the catalog row the cart snapshots from. Catalog management lives
// in the seller back office; this service only reads it.
type Product struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID            *uuid.UUID          `gorm:"column:seller_id;type:uuid"`
	Name                string              `gorm:"column:name;not null"`
	Price               decimal.Decimal     `gorm:"column:price;type:numeric(14,4);not null"`
	OriginalPrice       decimal.NullDecimal `gorm:"column:original_price;type:numeric(14,4)"`
	Category            *string             `gorm:"column:category"`
	Fabric              *string             `gorm:"column:fabric"`
	Color               *string             `gorm:"column:color"`
	Pattern             *string             `gorm:"column:pattern"`
	ImageURL            string              `gorm:"column:image_url;not null;default:''"`
	DeliverablePincodes pq.StringArray      `gorm:"column:deliverable_pincodes;type:text[]"`
	IsActive            bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
