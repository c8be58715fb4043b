package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

type productReader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes shopper cart and wishlist operations. Each call opens the
// shopper's store from storage; concurrent writers for the same shopper are
// last-writer-wins.
type Service interface {
	Get(ctx context.Context, shopperID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, shopperID, productID uuid.UUID) (*CartView, error)
	UpdateQuantity(ctx context.Context, shopperID, productID uuid.UUID, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, shopperID, productID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, shopperID uuid.UUID) (*CartView, error)
	Wishlist(ctx context.Context, shopperID uuid.UUID) (*WishlistView, error)
	AddToWishlist(ctx context.Context, shopperID, productID uuid.UUID) (*WishlistView, error)
	RemoveFromWishlist(ctx context.Context, shopperID, productID uuid.UUID) (*WishlistView, error)
	Open(ctx context.Context, shopperID uuid.UUID) *Store
}

type service struct {
	products productReader
	storage  Storage
	logg     *logger.Logger
	metrics  storageMetrics
}

// NewService builds the cart service. metrics may be nil.
func NewService(products productReader, storage Storage, logg *logger.Logger, metrics storageMetrics) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		products: products,
		storage:  storage,
		logg:     logg,
		metrics:  metrics,
	}, nil
}

// Open returns the shopper's hydrated store.
func (s *service) Open(ctx context.Context, shopperID uuid.UUID) *Store {
	store := NewStore(StoreParams{
		Owner:   shopperID.String(),
		Storage: s.storage,
		Logger:  s.logg,
		Metrics: s.metrics,
	})
	store.Hydrate(ctx)
	return store
}

func (s *service) Get(ctx context.Context, shopperID uuid.UUID) (*CartView, error) {
	if err := requireShopper(shopperID); err != nil {
		return nil, err
	}
	return newCartView(s.Open(ctx, shopperID)), nil
}

func (s *service) AddItem(ctx context.Context, shopperID, productID uuid.UUID) (*CartView, error) {
	if err := requireShopper(shopperID); err != nil {
		return nil, err
	}
	product, err := s.resolveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	store := s.Open(ctx, shopperID)
	store.AddToCart(ctx, product)
	return newCartView(store), nil
}

// UpdateQuantity does not consult the catalog: a line for a since-deactivated
// product can still be changed or removed.
func (s *service) UpdateQuantity(ctx context.Context, shopperID, productID uuid.UUID, quantity int) (*CartView, error) {
	if err := requireShopper(shopperID); err != nil {
		return nil, err
	}
	store := s.Open(ctx, shopperID)
	store.UpdateQuantity(ctx, productID, quantity)
	return newCartView(store), nil
}

func (s *service) RemoveItem(ctx context.Context, shopperID, productID uuid.UUID) (*CartView, error) {
	if err := requireShopper(shopperID); err != nil {
		return nil, err
	}
	store := s.Open(ctx, shopperID)
	store.RemoveFromCart(ctx, productID)
	return newCartView(store), nil
}

func (s *service) Clear(ctx context.Context, shopperID uuid.UUID) (*CartView, error) {
	if err := requireShopper(shopperID); err != nil {
		return nil, err
	}
	store := s.Open(ctx, shopperID)
	store.ClearCart(ctx)
	return newCartView(store), nil
}

func (s *service) Wishlist(ctx context.Context, shopperID uuid.UUID) (*WishlistView, error) {
	if err := requireShopper(shopperID); err != nil {
		return nil, err
	}
	return newWishlistView(s.Open(ctx, shopperID)), nil
}

func (s *service) AddToWishlist(ctx context.Context, shopperID, productID uuid.UUID) (*WishlistView, error) {
	if err := requireShopper(shopperID); err != nil {
		return nil, err
	}
	product, err := s.resolveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	store := s.Open(ctx, shopperID)
	store.AddToWishlist(ctx, product)
	return newWishlistView(store), nil
}

func (s *service) RemoveFromWishlist(ctx context.Context, shopperID, productID uuid.UUID) (*WishlistView, error) {
	if err := requireShopper(shopperID); err != nil {
		return nil, err
	}
	store := s.Open(ctx, shopperID)
	store.RemoveFromWishlist(ctx, productID)
	return newWishlistView(store), nil
}

func (s *service) resolveProduct(ctx context.Context, productID uuid.UUID) (Product, error) {
	if productID == uuid.Nil {
		return Product{}, pkgerrors.Field(pkgerrors.CodeValidation, "product_id", "is required")
	}
	row, err := s.products.FindActiveByID(ctx, productID)
	if err != nil {
		return Product{}, err
	}
	return ProductFromModel(*row), nil
}

func requireShopper(shopperID uuid.UUID) error {
	if shopperID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "shopper context missing")
	}
	return nil
}
