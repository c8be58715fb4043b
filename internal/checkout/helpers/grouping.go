package helpers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/internal/cart"
)

// SellerBucket is the subset of cart lines attributed to one seller. A nil
// SellerID is the bucket for lines without seller attribution.
type SellerBucket struct {
	SellerID *uuid.UUID
	Items    []cart.Item
}

// Subtotal is Σ price × quantity over the bucket's lines.
func (b SellerBucket) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// GroupItemsBySeller partitions lines by seller, keeping buckets in the order
// their seller first appears in the cart.
func GroupItemsBySeller(items []cart.Item) []SellerBucket {
	buckets := make([]SellerBucket, 0)
	index := make(map[uuid.UUID]int)
	unknown := -1
	for _, item := range items {
		if item.SellerID == nil || *item.SellerID == uuid.Nil {
			if unknown < 0 {
				unknown = len(buckets)
				buckets = append(buckets, SellerBucket{})
			}
			buckets[unknown].Items = append(buckets[unknown].Items, item)
			continue
		}
		id := *item.SellerID
		pos, ok := index[id]
		if !ok {
			pos = len(buckets)
			index[id] = pos
			sellerID := id
			buckets = append(buckets, SellerBucket{SellerID: &sellerID})
		}
		buckets[pos].Items = append(buckets[pos].Items, item)
	}
	return buckets
}

// SellerIDs lists the attributed sellers of the buckets, in bucket order.
func SellerIDs(buckets []SellerBucket) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(buckets))
	for _, b := range buckets {
		if b.SellerID != nil {
			ids = append(ids, *b.SellerID)
		}
	}
	return ids
}
