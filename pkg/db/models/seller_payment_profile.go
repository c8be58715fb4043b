package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SellerPaymentProfile holds a seller's direct-payment and charge settings.
type SellerPaymentProfile struct {
	SellerID              uuid.UUID           `gorm:"column:seller_id;type:uuid;primaryKey"`
	DisplayName           string              `gorm:"column:display_name;not null"`
	UPIID                 *string             `gorm:"column:upi_id"`
	AcceptsCOD            *bool               `gorm:"column:accepts_cod"`
	QRImageURL            *string             `gorm:"column:qr_image_url"`
	PaymentInstructions   string              `gorm:"column:payment_instructions;not null;default:''"`
	ShippingCharge        decimal.Decimal     `gorm:"column:shipping_charge;type:numeric(14,4);not null;default:0"`
	FreeShippingAbove     decimal.NullDecimal `gorm:"column:free_shipping_above;type:numeric(14,4)"`
	GSTEnabled            bool                `gorm:"column:gst_enabled;not null;default:false"`
	GSTRate               decimal.Decimal     `gorm:"column:gst_rate;type:numeric(6,3);not null;default:0"`
	ConvenienceFeeEnabled bool                `gorm:"column:convenience_fee_enabled;not null;default:false"`
	ConvenienceFee        decimal.Decimal     `gorm:"column:convenience_fee;type:numeric(14,4);not null;default:0"`
	IsActive              bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (SellerPaymentProfile) TableName() string { return "seller_payment_profiles" }

// AcceptsUPI reports whether the seller published a UPI id or a QR code.
func (p SellerPaymentProfile) AcceptsUPI() bool {
	return nonBlank(p.UPIID) || nonBlank(p.QRImageURL)
}

// AllowsCOD treats a missing flag as allowed; only an explicit false disables it.
func (p SellerPaymentProfile) AllowsCOD() bool {
	return p.AcceptsCOD == nil || *p.AcceptsCOD
}

func nonBlank(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
