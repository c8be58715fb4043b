package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/pagination"
)

// Service exposes shopper order tracking.
type Service interface {
	List(ctx context.Context, shopperID uuid.UUID, params pagination.Params) (*OrderList, error)
	Get(ctx context.Context, shopperID, orderID uuid.UUID) (*OrderDetail, error)
}

type service struct {
	repo History
}

func NewService(repo History) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, shopperID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if shopperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper id required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListByShopper(ctx, shopperID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	page, next := pagination.Cut(rows, params.Limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{At: o.CreatedAt, ID: o.ID}
	})

	list := &OrderList{Orders: make([]OrderSummary, 0, len(page)), NextCursor: next}
	for _, row := range page {
		list.Orders = append(list.Orders, summaryFromModel(row))
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, shopperID, orderID uuid.UUID) (*OrderDetail, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "order_id", "is required")
	}
	order, err := s.repo.FindByID(ctx, shopperID, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return detailFromModel(*order), nil
}
