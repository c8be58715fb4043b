package cart

import "github.com/shopspring/decimal"

// CartView is the cart as returned to the shopper.
type CartView struct {
	Items []ItemDTO       `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type ItemDTO struct {
	Item
	LineTotal decimal.Decimal `json:"line_total"`
}

type WishlistView struct {
	Items []Product `json:"items"`
}

func newCartView(store *Store) *CartView {
	items := store.Items()
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ItemDTO{Item: item, LineTotal: item.LineTotal()})
	}
	return &CartView{
		Items: dtos,
		Total: store.CartTotal(),
		Count: store.CartCount(),
	}
}

func newWishlistView(store *Store) *WishlistView {
	return &WishlistView{Items: store.Wishlist()}
}
