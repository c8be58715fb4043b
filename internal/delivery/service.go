package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
)

type productReader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type postalCodeSource interface {
	DefaultPostalCode(ctx context.Context, shopperID uuid.UUID) (string, error)
}

// EstimateInput carries an optional explicit destination; when empty the
// shopper's default saved address is used.
type EstimateInput struct {
	ShopperID  uuid.UUID
	ProductID  uuid.UUID
	PostalCode string
}

type EstimateView struct {
	ProductID   uuid.UUID `json:"product_id"`
	Destination *string   `json:"destination"`
	Result
}

type Service interface {
	EstimateForProduct(ctx context.Context, input EstimateInput) (*EstimateView, error)
}

type service struct {
	products  productReader
	addresses postalCodeSource
	now       func() time.Time
}

func NewService(products productReader, addresses postalCodeSource, now func() time.Time) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("postal code source required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{products: products, addresses: addresses, now: now}, nil
}

// EstimateForProduct fails only when the product cannot be found. A missing or
// unreadable destination yields the "unknown" result.
func (s *service) EstimateForProduct(ctx context.Context, input EstimateInput) (*EstimateView, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "product_id", "is required")
	}
	product, err := s.products.FindActiveByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	destination := strings.TrimSpace(input.PostalCode)
	if destination == "" && input.ShopperID != uuid.Nil {
		if code, err := s.addresses.DefaultPostalCode(ctx, input.ShopperID); err == nil {
			destination = strings.TrimSpace(code)
		}
	}

	view := &EstimateView{
		ProductID: product.ID,
		Result:    Estimate(product.DeliverablePincodes, destination, s.now()),
	}
	if destination != "" {
		view.Destination = &destination
	}
	return view, nil
}
