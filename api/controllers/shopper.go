package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/api/middleware"
	"github.com/angelmondragon/sellerbazaar-backend/api/responses"
	"github.com/angelmondragon/sellerbazaar-backend/api/validators"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

func shopperFromRequest(r *http.Request) (uuid.UUID, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "shopper context missing")
	}
	return p.ShopperID, nil
}

// shopperAction adapts fn into a handler that resolves the caller first and
// writes fn's result in the data envelope.
func shopperAction[T any](logg *logger.Logger, fn func(r *http.Request, shopperID uuid.UUID) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := fn(r, shopperID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// productAction is shopperAction for routes keyed by {productId}.
func productAction[T any](logg *logger.Logger, fn func(r *http.Request, shopperID, productID uuid.UUID) (T, error)) http.HandlerFunc {
	return shopperAction(logg, func(r *http.Request, shopperID uuid.UUID) (T, error) {
		productID, err := validators.PathUUID(r, "productId")
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(r, shopperID, productID)
	})
}
