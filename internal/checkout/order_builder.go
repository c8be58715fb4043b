package checkout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/internal/cart"
	"github.com/angelmondragon/sellerbazaar-backend/internal/orders"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
)

// sellerBreakdownEntry is the per-seller charge record frozen on the order.
type sellerBreakdownEntry struct {
	SellerID       *uuid.UUID      `json:"seller_id"`
	DisplayName    string          `json:"display_name"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Shipping       decimal.Decimal `json:"shipping"`
	GST            decimal.Decimal `json:"gst"`
	GSTRate        decimal.Decimal `json:"gst_rate"`
	ConvenienceFee decimal.Decimal `json:"convenience_fee"`
	Total          decimal.Decimal `json:"total"`
	Fallback       bool            `json:"fallback"`
}

// buildOrder freezes a reviewed session into an order header and its lines.
// Line order follows the cart.
func buildOrder(session *Session, items []cart.Item, now time.Time) (*models.Order, []models.OrderLine, error) {
	if session.Address == nil || session.Breakdown == nil || session.PaymentMethod == nil {
		return nil, nil, fmt.Errorf("session %s is not ready for submission", session.ID)
	}
	if len(items) == 0 {
		return nil, nil, fmt.Errorf("cart is empty")
	}

	b := session.Breakdown
	entries := make([]sellerBreakdownEntry, 0, len(b.Sellers))
	for _, s := range b.Sellers {
		entries = append(entries, sellerBreakdownEntry{
			SellerID:       s.SellerID,
			DisplayName:    s.DisplayName,
			Subtotal:       s.Subtotal,
			Shipping:       s.Shipping,
			GST:            s.GST,
			GSTRate:        s.GSTRate,
			ConvenienceFee: s.ConvenienceFee,
			Total:          s.Total,
			Fallback:       s.Fallback,
		})
	}
	breakdown, err := json.Marshal(entries)
	if err != nil {
		return nil, nil, fmt.Errorf("encode seller breakdown: %w", err)
	}

	orderID := uuid.New()
	order := &models.Order{
		ID:                  orderID,
		OrderNumber:         orders.NewOrderNumber(orderID, now),
		ShopperID:           session.ShopperID,
		IdempotencyKey:      session.ID.String(),
		Status:              enums.OrderStatusPlaced,
		PaymentMethod:       *session.PaymentMethod,
		PaymentNote:         session.PaymentNote(),
		ShippingAddress:     *session.Address,
		Subtotal:            b.Subtotal,
		ShippingTotal:       b.Shipping,
		GSTTotal:            b.GST,
		ConvenienceFeeTotal: b.ConvenienceFee,
		GrandTotal:          b.GrandTotal,
		SellerBreakdown:     breakdown,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	lines := make([]models.OrderLine, 0, len(items))
	for i, item := range items {
		line := models.OrderLine{
			ID:         uuid.New(),
			OrderID:    orderID,
			LineNumber: i + 1,
			ProductID:  item.ID,
			SellerID:   item.SellerID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   item.Quantity,
			LineTotal:  item.LineTotal(),
			ImageURL:   item.ImageURL,
			Category:   item.Category,
			Fabric:     item.Fabric,
			Color:      item.Color,
			Pattern:    item.Pattern,
			CreatedAt:  now,
		}
		if item.OriginalPrice != nil {
			line.OriginalPrice = decimal.NewNullDecimal(*item.OriginalPrice)
		}
		lines = append(lines, line)
	}
	return order, lines, nil
}
