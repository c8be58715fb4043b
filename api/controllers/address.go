package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/api/responses"
	"github.com/angelmondragon/sellerbazaar-backend/api/validators"
	"github.com/angelmondragon/sellerbazaar-backend/internal/address"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

type addressService interface {
	List(ctx context.Context, shopperID uuid.UUID) ([]models.SavedAddress, error)
	Create(ctx context.Context, shopperID uuid.UUID, input address.CreateInput) (*models.SavedAddress, error)
}

type createAddressRequest struct {
	types.ShippingAddress
	MakeDefault bool `json:"make_default"`
}

type addressResponse struct {
	ID        uuid.UUID `json:"id"`
	IsDefault bool      `json:"is_default"`
	types.ShippingAddress
	CreatedAt time.Time `json:"created_at"`
}

func newAddressResponse(a models.SavedAddress) addressResponse {
	return addressResponse{
		ID:              a.ID,
		IsDefault:       a.IsDefault,
		ShippingAddress: a.Shipping(),
		CreatedAt:       a.CreatedAt,
	}
}

func AddressList(svc addressService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shopperID, err := shopperFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rows, err := svc.List(ctx, shopperID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		out := make([]addressResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newAddressResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}

// AddressCreate saves a new address. The first address becomes the default.
func AddressCreate(svc addressService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shopperID, err := shopperFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		saved, err := svc.Create(ctx, shopperID, address.CreateInput{
			Address:     payload.ShippingAddress,
			MakeDefault: payload.MakeDefault,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newAddressResponse(*saved))
	}
}
