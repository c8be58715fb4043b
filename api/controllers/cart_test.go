package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
)

type stubCartService struct {
	view        *cart.CartView
	err         error
	addedID     uuid.UUID
	updatedID   uuid.UUID
	updatedQty  int
	removedID   uuid.UUID
	clearCalled bool
}

func (s *stubCartService) Get(ctx context.Context, shopperID uuid.UUID) (*cart.CartView, error) {
	return s.view, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, shopperID, productID uuid.UUID) (*cart.CartView, error) {
	s.addedID = productID
	return s.view, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, shopperID, productID uuid.UUID, quantity int) (*cart.CartView, error) {
	s.updatedID = productID
	s.updatedQty = quantity
	return s.view, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, shopperID, productID uuid.UUID) (*cart.CartView, error) {
	s.removedID = productID
	return s.view, s.err
}

func (s *stubCartService) Clear(ctx context.Context, shopperID uuid.UUID) (*cart.CartView, error) {
	s.clearCalled = true
	return s.view, s.err
}

func sampleCartView() *cart.CartView {
	return &cart.CartView{Items: []cart.ItemDTO{}, Total: decimal.NewFromInt(500), Count: 2}
}

func TestCartGetSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: sampleCartView()}
	resp := httptest.NewRecorder()
	CartGet(svc, nil).ServeHTTP(resp, shopperRequest(http.MethodGet, "/api/v1/cart", nil, uuid.New(), nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var view cart.CartView
	decodeData(t, resp, &view)
	if !view.Total.Equal(decimal.NewFromInt(500)) || view.Count != 2 {
		t.Fatalf("unexpected cart view %+v", view)
	}
}

func TestCartGetMissingShopperContext(t *testing.T) {
	t.Parallel()

	resp := httptest.NewRecorder()
	CartGet(&stubCartService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemParsesProductID(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	svc := &stubCartService{view: sampleCartView()}
	body := strings.NewReader(`{"product_id":"` + productID.String() + `"}`)
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, shopperRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New(), nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.addedID != productID {
		t.Fatalf("expected product %s, got %s", productID, svc.addedID)
	}
}

func TestCartAddItemRejectsBadProductID(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, shopperRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":"nope"}`), uuid.New(), nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.addedID != uuid.Nil {
		t.Fatalf("service should not be called")
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	body := strings.NewReader(`{"product_id":"` + uuid.NewString() + `"}`)
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, shopperRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New(), nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestCartUpdateQuantityAllowsZero(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	svc := &stubCartService{view: sampleCartView(), updatedQty: -1}
	resp := httptest.NewRecorder()
	req := shopperRequest(http.MethodPatch, "/api/v1/cart/items/"+productID.String(), strings.NewReader(`{"quantity":0}`), uuid.New(), map[string]string{"productId": productID.String()})
	CartUpdateQuantity(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.updatedID != productID || svc.updatedQty != 0 {
		t.Fatalf("unexpected update %s qty=%d", svc.updatedID, svc.updatedQty)
	}
}

func TestCartUpdateQuantityRequiresQuantity(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	resp := httptest.NewRecorder()
	req := shopperRequest(http.MethodPatch, "/", strings.NewReader(`{}`), uuid.New(), map[string]string{"productId": productID.String()})
	CartUpdateQuantity(&stubCartService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	svc := &stubCartService{view: sampleCartView()}

	resp := httptest.NewRecorder()
	CartRemoveItem(svc, nil).ServeHTTP(resp, shopperRequest(http.MethodDelete, "/", nil, uuid.New(), map[string]string{"productId": productID.String()}))
	if resp.Code != http.StatusOK || svc.removedID != productID {
		t.Fatalf("remove failed: status %d removed %s", resp.Code, svc.removedID)
	}

	resp = httptest.NewRecorder()
	CartClear(svc, nil).ServeHTTP(resp, shopperRequest(http.MethodDelete, "/api/v1/cart", nil, uuid.New(), nil))
	if resp.Code != http.StatusOK || !svc.clearCalled {
		t.Fatalf("clear failed: status %d", resp.Code)
	}
}
