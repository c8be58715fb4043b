package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine freezes the product as it was in the cart at submission time.
type OrderLine struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	LineNumber    int                 `gorm:"column:line_number;not null"`
	ProductID     uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	SellerID      *uuid.UUID          `gorm:"column:seller_id;type:uuid"`
	Name          string              `gorm:"column:name;not null"`
	UnitPrice     decimal.Decimal     `gorm:"column:unit_price;type:numeric(14,4);not null"`
	OriginalPrice decimal.NullDecimal `gorm:"column:original_price;type:numeric(14,4)"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	LineTotal     decimal.Decimal     `gorm:"column:line_total;type:numeric(14,4);not null"`
	ImageURL      string              `gorm:"column:image_url;not null;default:''"`
	Category      *string             `gorm:"column:category"`
	Fabric        *string             `gorm:"column:fabric"`
	Color         *string             `gorm:"column:color"`
	Pattern       *string             `gorm:"column:pattern"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (OrderLine) TableName() string { return "order_lines" }
