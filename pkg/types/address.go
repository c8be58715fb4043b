package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/validate"
)

// ShippingAddress is the delivery address shared by every seller in an order.
// It is stored as jsonb on the order header so later edits to the saved
// address do not rewrite history.
type ShippingAddress struct {
	FullName   string  `json:"full_name" validate:"required,max=120"`
	Phone      string  `json:"phone" validate:"required,phone"`
	Line1      string  `json:"line1" validate:"required,max=200"`
	Line2      *string `json:"line2,omitempty" validate:"omitempty,max=200"`
	City       string  `json:"city" validate:"required,max=100"`
	State      string  `json:"state" validate:"required,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,pincode"`
}

// Normalize trims whitespace on every field.
func (a ShippingAddress) Normalize() ShippingAddress {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Line1 = strings.TrimSpace(a.Line1)
	if a.Line2 != nil {
		line2 := strings.TrimSpace(*a.Line2)
		if line2 == "" {
			a.Line2 = nil
		} else {
			a.Line2 = &line2
		}
	}
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	return a
}

// Validate returns a VALIDATION_ERROR with per-field details.
func (a ShippingAddress) Validate() error {
	return validate.Struct(a, "invalid address")
}

// Value stores the address as JSON.
func (a ShippingAddress) Value() (driver.Value, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("shipping address: %w", err)
	}
	return string(payload), nil
}

// Scan decodes the JSON column.
func (a *ShippingAddress) Scan(value interface{}) error {
	if value == nil {
		*a = ShippingAddress{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("shipping address: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, a)
}
