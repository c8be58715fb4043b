package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/sellerbazaar-backend/api/responses"
	"github.com/angelmondragon/sellerbazaar-backend/api/validators"
	"github.com/angelmondragon/sellerbazaar-backend/internal/delivery"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

type deliveryEstimator interface {
	EstimateForProduct(ctx context.Context, input delivery.EstimateInput) (*delivery.EstimateView, error)
}

// DeliveryEstimate answers "does this product ship to me, and when".
// Without ?postal_code the shopper's default saved address is used.
func DeliveryEstimate(svc deliveryEstimator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shopperID, err := shopperFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := validators.PathUUID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.EstimateForProduct(ctx, delivery.EstimateInput{
			ShopperID:  shopperID,
			ProductID:  productID,
			PostalCode: validators.SanitizeString(r.URL.Query().Get("postal_code"), 12),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
