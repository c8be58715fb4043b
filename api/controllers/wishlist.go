package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/internal/cart"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

type wishlistService interface {
	Wishlist(ctx context.Context, shopperID uuid.UUID) (*cart.WishlistView, error)
	AddToWishlist(ctx context.Context, shopperID, productID uuid.UUID) (*cart.WishlistView, error)
	RemoveFromWishlist(ctx context.Context, shopperID, productID uuid.UUID) (*cart.WishlistView, error)
}

func WishlistGet(svc wishlistService, logg *logger.Logger) http.HandlerFunc {
	return shopperAction(logg, func(r *http.Request, shopperID uuid.UUID) (*cart.WishlistView, error) {
		return svc.Wishlist(r.Context(), shopperID)
	})
}

// WishlistAdd is a PUT: saving a product twice leaves one entry.
func WishlistAdd(svc wishlistService, logg *logger.Logger) http.HandlerFunc {
	return productAction(logg, func(r *http.Request, shopperID, productID uuid.UUID) (*cart.WishlistView, error) {
		return svc.AddToWishlist(r.Context(), shopperID, productID)
	})
}

func WishlistRemove(svc wishlistService, logg *logger.Logger) http.HandlerFunc {
	return productAction(logg, func(r *http.Request, shopperID, productID uuid.UUID) (*cart.WishlistView, error) {
		return svc.RemoveFromWishlist(r.Context(), shopperID, productID)
	})
}
