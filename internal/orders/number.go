package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
)

const orderNumberPrefix = "SB"

// NewOrderNumber derives the human-facing order number from the order id and
// the placement date, e.g. SB-20260302-9F1C2A7B.
func NewOrderNumber(orderID uuid.UUID, placedAt time.Time) string {
	hexID := strings.ReplaceAll(orderID.String(), "-", "")
	return orderNumberPrefix + "-" + placedAt.UTC().Format("20060102") + "-" + strings.ToUpper(hexID[:8])
}

// PaymentNote is the free-text note stored with the order.
func PaymentNote(method enums.PaymentMethod, reference string) string {
	if method.Prepaid() {
		return method.Label() + " ref: " + strings.TrimSpace(reference)
	}
	return method.Label()
}
