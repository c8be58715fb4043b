package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

// SavedAddress is an address in the shopper's address book.
type SavedAddress struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopperID  uuid.UUID `gorm:"column:shopper_id;type:uuid;not null"`
	FullName   string    `gorm:"column:full_name;not null"`
	Phone      string    `gorm:"column:phone;not null"`
	Line1      string    `gorm:"column:line1;not null"`
	Line2      *string   `gorm:"column:line2"`
	City       string    `gorm:"column:city;not null"`
	State      string    `gorm:"column:state;not null"`
	PostalCode string    `gorm:"column:postal_code;not null"`
	IsDefault  bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SavedAddress) TableName() string { return "saved_addresses" }

// Shipping returns the address fields frozen onto an order.
func (a SavedAddress) Shipping() types.ShippingAddress {
	return types.ShippingAddress{
		FullName:   a.FullName,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
	}
}
