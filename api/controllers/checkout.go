package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/api/responses"
	"github.com/angelmondragon/sellerbazaar-backend/api/validators"
	"github.com/angelmondragon/sellerbazaar-backend/internal/checkout"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

const maxTransactionReferenceLen = 64

type selectAddressRequest struct {
	AddressID *string                `json:"address_id"`
	Address   *types.ShippingAddress `json:"address"`
}

type choosePaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type submitCheckoutRequest struct {
	TransactionReference string `json:"transaction_reference"`
	PaidConfirmation     bool   `json:"paid_confirmation"`
}

type sessionStep func(ctx context.Context, shopperID uuid.UUID) (*checkout.SessionView, error)

// CheckoutStart opens a checkout at the Address step, or resumes the one in progress.
func CheckoutStart(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return checkoutStep(logg, svc.Start)
}

func CheckoutGet(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return checkoutStep(logg, svc.Get)
}

// CheckoutRefreshCharges refetches seller payment profiles and recomputes the breakdown.
func CheckoutRefreshCharges(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return checkoutStep(logg, svc.RefreshCharges)
}

func CheckoutReview(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return checkoutStep(logg, svc.Review)
}

func CheckoutBack(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return checkoutStep(logg, svc.Back)
}

func checkoutStep(logg *logger.Logger, step sessionStep) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shopperID, err := shopperFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		view, err := step(ctx, shopperID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CheckoutSelectAddress accepts exactly one of a saved address id or an inline
// address, then advances to Payment with freshly computed charges.
func CheckoutSelectAddress(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shopperID, err := shopperFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload selectAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		selection, err := payload.toSelection()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.SelectAddress(ctx, shopperID, selection)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func (p selectAddressRequest) toSelection() (checkout.AddressSelection, error) {
	hasID := p.AddressID != nil && strings.TrimSpace(*p.AddressID) != ""
	if hasID == (p.Address != nil) {
		return checkout.AddressSelection{}, pkgerrors.New(pkgerrors.CodeValidation, "provide either address_id or address").
			WithDetails(map[string]string{"address_id": "exactly one of address_id or address is required"})
	}
	if p.Address != nil {
		return checkout.AddressSelection{Address: p.Address}, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*p.AddressID))
	if err != nil {
		return checkout.AddressSelection{}, pkgerrors.Field(pkgerrors.CodeValidation, "address_id", "must be a valid id")
	}
	return checkout.AddressSelection{AddressID: &id}, nil
}

func CheckoutChoosePayment(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shopperID, err := shopperFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload choosePaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Field(pkgerrors.CodeValidation, "payment_method", "must be one of upi, cod"))
			return
		}

		view, err := svc.ChoosePayment(ctx, shopperID, method)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CheckoutSubmit places the order. A body is only needed for UPI, where it
// carries the transaction reference and the shopper's paid confirmation.
// A replayed submission answers 200 with the original order.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shopperID, err := shopperFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload submitCheckoutRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		result, err := svc.Submit(ctx, shopperID, checkout.SubmitInput{
			TransactionReference: validators.SanitizeString(payload.TransactionReference, maxTransactionReferenceLen),
			PaidConfirmed:        payload.PaidConfirmation,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status := http.StatusCreated
		if result.Duplicate {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}
