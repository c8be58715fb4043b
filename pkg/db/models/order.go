package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

// Order is the header of one checkout: one address, one payment method and the
// totals aggregated over every seller in the cart.
type Order struct {
	ID                  uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber         string                `gorm:"column:order_number;not null"`
	ShopperID           uuid.UUID             `gorm:"column:shopper_id;type:uuid;not null"`
	IdempotencyKey      string                `gorm:"column:idempotency_key;not null"`
	Status              enums.OrderStatus     `gorm:"column:status;not null"`
	PaymentMethod       enums.PaymentMethod   `gorm:"column:payment_method;not null"`
	PaymentNote         string                `gorm:"column:payment_note;not null;default:''"`
	ShippingAddress     types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;not null"`
	Subtotal            decimal.Decimal       `gorm:"column:subtotal;type:numeric(14,4);not null"`
	ShippingTotal       decimal.Decimal       `gorm:"column:shipping_total;type:numeric(14,4);not null"`
	GSTTotal            decimal.Decimal       `gorm:"column:gst_total;type:numeric(14,4);not null"`
	ConvenienceFeeTotal decimal.Decimal       `gorm:"column:convenience_fee_total;type:numeric(14,4);not null"`
	GrandTotal          decimal.Decimal       `gorm:"column:grand_total;type:numeric(14,4);not null"`
	SellerBreakdown     json.RawMessage       `gorm:"column:seller_breakdown;type:jsonb;not null"`
	CreatedAt           time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	Lines []OrderLine `gorm:"foreignKey:OrderID;references:ID"`
}

func (Order) TableName() string { return "orders" }
