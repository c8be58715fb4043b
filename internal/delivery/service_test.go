package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
)

type stubProducts struct {
	row *models.Product
}

func (s stubProducts) FindActiveByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if s.row == nil || s.row.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return s.row, nil
}

type stubAddresses struct {
	code string
	err  error
}

func (s stubAddresses) DefaultPostalCode(context.Context, uuid.UUID) (string, error) {
	return s.code, s.err
}

func fixedClock() time.Time { return monday }

func TestServiceUsesDefaultAddress(t *testing.T) {
	t.Parallel()

	product := &models.Product{ID: uuid.New(), DeliverablePincodes: pq.StringArray{"700001"}}
	svc, err := NewService(stubProducts{row: product}, stubAddresses{code: "700001"}, fixedClock)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	view, err := svc.EstimateForProduct(context.Background(), EstimateInput{ShopperID: uuid.New(), ProductID: product.ID})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !view.Deliverable || view.Destination == nil || *view.Destination != "700001" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestServiceExplicitPostalCodeWins(t *testing.T) {
	t.Parallel()

	product := &models.Product{ID: uuid.New(), DeliverablePincodes: pq.StringArray{"700001"}}
	svc, _ := NewService(stubProducts{row: product}, stubAddresses{code: "700001"}, fixedClock)

	view, err := svc.EstimateForProduct(context.Background(), EstimateInput{ShopperID: uuid.New(), ProductID: product.ID, PostalCode: "110001"})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if view.Deliverable {
		t.Fatal("110001 is not in the list")
	}
	if *view.RangeLabel != "3-6 days" {
		t.Fatalf("expected 3-6 days, got %s", *view.RangeLabel)
	}
}

func TestServiceAddressFailureIsUnknown(t *testing.T) {
	t.Parallel()

	product := &models.Product{ID: uuid.New()}
	svc, _ := NewService(stubProducts{row: product}, stubAddresses{err: errors.New("db down")}, fixedClock)

	view, err := svc.EstimateForProduct(context.Background(), EstimateInput{ShopperID: uuid.New(), ProductID: product.ID})
	if err != nil {
		t.Fatalf("address failure must not surface, got %v", err)
	}
	if view.Deliverable || view.EstimatedDate != nil || view.Destination != nil {
		t.Fatalf("expected unknown result, got %+v", view)
	}
}

func TestServiceUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(stubProducts{}, stubAddresses{}, fixedClock)
	_, err := svc.EstimateForProduct(context.Background(), EstimateInput{ProductID: uuid.New()})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
