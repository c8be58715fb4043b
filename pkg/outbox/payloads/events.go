package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
)

// OrderPlacedEvent notifies seller dashboards that an order includes them.
type OrderPlacedEvent struct {
	OrderID       uuid.UUID           `json:"orderId"`
	OrderNumber   string              `json:"orderNumber"`
	ShopperID     uuid.UUID           `json:"shopperId"`
	SellerIDs     []uuid.UUID         `json:"sellerIds"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	GrandTotal    decimal.Decimal     `json:"grandTotal"`
	LineCount     int                 `json:"lineCount"`
}

// OrderIncompleteEvent is raised when reconciliation finds a header without lines.
type OrderIncompleteEvent struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	ShopperID   uuid.UUID `json:"shopperId"`
	DetectedAt  time.Time `json:"detectedAt"`
}
