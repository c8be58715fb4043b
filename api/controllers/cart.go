package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/api/validators"
	"github.com/angelmondragon/sellerbazaar-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

type cartService interface {
	Get(ctx context.Context, shopperID uuid.UUID) (*cart.CartView, error)
	AddItem(ctx context.Context, shopperID, productID uuid.UUID) (*cart.CartView, error)
	UpdateQuantity(ctx context.Context, shopperID, productID uuid.UUID, quantity int) (*cart.CartView, error)
	RemoveItem(ctx context.Context, shopperID, productID uuid.UUID) (*cart.CartView, error)
	Clear(ctx context.Context, shopperID uuid.UUID) (*cart.CartView, error)
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartGet returns the cart grouped by seller with totals.
func CartGet(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return shopperAction(logg, func(r *http.Request, shopperID uuid.UUID) (*cart.CartView, error) {
		return svc.Get(r.Context(), shopperID)
	})
}

// CartAddItem adds one unit of a product. Repeated adds increment the line.
func CartAddItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return shopperAction(logg, func(r *http.Request, shopperID uuid.UUID) (*cart.CartView, error) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			return nil, pkgerrors.Field(pkgerrors.CodeValidation, "product_id", "must be a valid id")
		}
		return svc.AddItem(r.Context(), shopperID, productID)
	})
}

// CartUpdateQuantity sets a line's quantity; zero or negative removes it.
func CartUpdateQuantity(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return productAction(logg, func(r *http.Request, shopperID, productID uuid.UUID) (*cart.CartView, error) {
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateQuantity(r.Context(), shopperID, productID, *payload.Quantity)
	})
}

func CartRemoveItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return productAction(logg, func(r *http.Request, shopperID, productID uuid.UUID) (*cart.CartView, error) {
		return svc.RemoveItem(r.Context(), shopperID, productID)
	})
}

func CartClear(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return shopperAction(logg, func(r *http.Request, shopperID uuid.UUID) (*cart.CartView, error) {
		return svc.Clear(r.Context(), shopperID)
	})
}
