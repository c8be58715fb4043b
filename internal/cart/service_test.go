package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

type stubProducts struct {
	rows map[uuid.UUID]models.Product
}

func (s stubProducts) FindActiveByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &row, nil
}

func newTestService(t *testing.T, rows ...models.Product) (Service, *memoryStorage) {
	t.Helper()
	byID := map[uuid.UUID]models.Product{}
	for _, row := range rows {
		byID[row.ID] = row
	}
	storage := newMemoryStorage()
	svc, err := NewService(stubProducts{rows: byID}, storage, logger.Nop(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, storage
}

func catalogRow(price string) models.Product {
	seller := uuid.New()
	return models.Product{
		ID:       uuid.New(),
		SellerID: &seller,
		Name:     "Block print kurta",
		Price:    decimal.RequireFromString(price),
		OriginalPrice: decimal.NullDecimal{
			Decimal: decimal.RequireFromString("1500"),
			Valid:   true,
		},
		ImageURL: "https://cdn.example/kurta.jpg",
		IsActive: true,
	}
}

func TestServiceAddItemSnapshotsProduct(t *testing.T) {
	t.Parallel()

	row := catalogRow("1200")
	svc, _ := newTestService(t, row)
	shopper := uuid.New()

	if _, err := svc.AddItem(context.Background(), shopper, row.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}
	view, err := svc.AddItem(context.Background(), shopper, row.ID)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with qty 2, got %+v", view.Items)
	}
	line := view.Items[0]
	if line.SellerID == nil || *line.SellerID != *row.SellerID {
		t.Fatal("seller id not snapshotted")
	}
	if line.OriginalPrice == nil || !line.OriginalPrice.Equal(decimal.RequireFromString("1500")) {
		t.Fatal("original price not snapshotted")
	}
	if !line.LineTotal.Equal(decimal.RequireFromString("2400")) || !view.Total.Equal(decimal.RequireFromString("2400")) {
		t.Fatalf("unexpected totals line=%s cart=%s", line.LineTotal, view.Total)
	}
	if view.Count != 2 {
		t.Fatalf("expected count 2, got %d", view.Count)
	}
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, storage := newTestService(t)
	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if storage.saves != 0 {
		t.Fatal("failed add must not persist")
	}

	_, err = svc.AddItem(context.Background(), uuid.New(), uuid.Nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for nil product, got %v", err)
	}
}

func TestServiceCartIsPerShopper(t *testing.T) {
	t.Parallel()

	row := catalogRow("10")
	svc, _ := newTestService(t, row)
	alice, bob := uuid.New(), uuid.New()

	if _, err := svc.AddItem(context.Background(), alice, row.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := svc.Get(context.Background(), bob)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Count != 0 {
		t.Fatalf("bob should have an empty cart, got %d", view.Count)
	}
}

func TestServiceQuantityRemoveClear(t *testing.T) {
	t.Parallel()

	a, b := catalogRow("100"), catalogRow("50")
	svc, _ := newTestService(t, a, b)
	shopper := uuid.New()
	ctx := context.Background()

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		if _, err := svc.AddItem(ctx, shopper, id); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	view, err := svc.UpdateQuantity(ctx, shopper, a.ID, 3)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !view.Total.Equal(decimal.RequireFromString("350")) {
		t.Fatalf("expected 350, got %s", view.Total)
	}

	view, err = svc.RemoveItem(ctx, shopper, b.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if view.Count != 3 {
		t.Fatalf("expected count 3, got %d", view.Count)
	}

	view, err = svc.Clear(ctx, shopper)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if view.Count != 0 || len(view.Items) != 0 {
		t.Fatal("expected empty cart")
	}
}

func TestServiceWishlist(t *testing.T) {
	t.Parallel()

	row := catalogRow("10")
	svc, _ := newTestService(t, row)
	shopper := uuid.New()
	ctx := context.Background()

	if _, err := svc.AddToWishlist(ctx, shopper, row.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := svc.AddToWishlist(ctx, shopper, row.ID)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected set semantics, got %d entries", len(view.Items))
	}

	view, err = svc.RemoveFromWishlist(ctx, shopper, row.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatal("expected empty wishlist")
	}
}

func TestServiceRequiresShopper(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), uuid.Nil); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, newMemoryStorage(), logger.Nop(), nil); err == nil {
		t.Fatal("expected error for nil product reader")
	}
	if _, err := NewService(stubProducts{}, nil, logger.Nop(), nil); err == nil {
		t.Fatal("expected error for nil storage")
	}
}
