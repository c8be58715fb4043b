package orders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

// OrderSummary is one row of the shopper's order history.
type OrderSummary struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	GrandTotal    decimal.Decimal     `json:"grand_total"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

type OrderLineDTO struct {
	ProductID     uuid.UUID        `json:"product_id"`
	SellerID      *uuid.UUID       `json:"seller_id,omitempty"`
	Name          string           `json:"name"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Quantity      int              `json:"quantity"`
	LineTotal     decimal.Decimal  `json:"line_total"`
	ImageURL      string           `json:"image_url"`
	Category      *string          `json:"category,omitempty"`
	Fabric        *string          `json:"fabric,omitempty"`
	Color         *string          `json:"color,omitempty"`
	Pattern       *string          `json:"pattern,omitempty"`
}

// OrderDetail is the full order as shown on the tracking page.
type OrderDetail struct {
	OrderSummary
	PaymentNote         string                `json:"payment_note"`
	ShippingAddress     types.ShippingAddress `json:"shipping_address"`
	Subtotal            decimal.Decimal       `json:"subtotal"`
	ShippingTotal       decimal.Decimal       `json:"shipping_total"`
	GSTTotal            decimal.Decimal       `json:"gst_total"`
	ConvenienceFeeTotal decimal.Decimal       `json:"convenience_fee_total"`
	SellerBreakdown     json.RawMessage       `json:"seller_breakdown"`
	Lines               []OrderLineDTO        `json:"lines"`
}

func summaryFromModel(order models.Order) OrderSummary {
	return OrderSummary{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		GrandTotal:    order.GrandTotal,
		CreatedAt:     order.CreatedAt,
	}
}

func detailFromModel(order models.Order) *OrderDetail {
	lines := make([]OrderLineDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		dto := OrderLineDTO{
			ProductID: line.ProductID,
			SellerID:  line.SellerID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
			ImageURL:  line.ImageURL,
			Category:  line.Category,
			Fabric:    line.Fabric,
			Color:     line.Color,
			Pattern:   line.Pattern,
		}
		if line.OriginalPrice.Valid {
			original := line.OriginalPrice.Decimal
			dto.OriginalPrice = &original
		}
		lines = append(lines, dto)
	}
	breakdown := order.SellerBreakdown
	if len(breakdown) == 0 {
		breakdown = json.RawMessage("[]")
	}
	return &OrderDetail{
		OrderSummary:        summaryFromModel(order),
		PaymentNote:         order.PaymentNote,
		ShippingAddress:     order.ShippingAddress,
		Subtotal:            order.Subtotal,
		ShippingTotal:       order.ShippingTotal,
		GSTTotal:            order.GSTTotal,
		ConvenienceFeeTotal: order.ConvenienceFeeTotal,
		SellerBreakdown:     breakdown,
		Lines:               lines,
	}
}
