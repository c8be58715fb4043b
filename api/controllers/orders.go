package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/api/responses"
	"github.com/angelmondragon/sellerbazaar-backend/api/validators"
	"github.com/angelmondragon/sellerbazaar-backend/internal/orders"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/pagination"
)

type orderReader interface {
	List(ctx context.Context, shopperID uuid.UUID, params pagination.Params) (*orders.OrderList, error)
	Get(ctx context.Context, shopperID, orderID uuid.UUID) (*orders.OrderDetail, error)
}

// OrderList returns the shopper's orders, newest first, with cursor paging.
func OrderList(svc orderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shopperID, err := shopperFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.QueryInt(r, "limit", validators.IntRange{Default: pagination.DefaultLimit, Min: 1, Max: pagination.MaxLimit})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.List(ctx, shopperID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func OrderGet(svc orderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		shopperID, err := shopperFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		orderID, err := validators.PathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		detail, err := svc.Get(ctx, shopperID, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
