package cart

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
)

const (
	opLoad = "load"
	opSave = "save"
	// opSkip counts saves withheld because the persisted snapshot was never
	// read.
	opSkip = "save_skipped"
)

type storageMetrics interface {
	IncStorageFailure(op string)
}

// StoreParams wires a Store. Only Owner is required; a nil Storage keeps the
// store purely in memory.
type StoreParams struct {
	Owner   string
	Storage Storage
	Logger  *logger.Logger
	Metrics storageMetrics
}

// Store holds one shopper's cart lines and wishlist. Mutations never fail:
// persistence errors are logged and counted, then dropped. While the
// persisted snapshot has not been read successfully the store never saves,
// so a failed load cannot overwrite the shopper's stored cart.
type Store struct {
	mu       sync.Mutex
	owner    string
	storage  Storage
	logg     *logger.Logger
	metrics  storageMetrics
	items    []Item
	wishlist []Product
	unloaded bool
}

func NewStore(params StoreParams) *Store {
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{
		owner:   params.Owner,
		storage: params.Storage,
		logg:    logg,
		metrics: params.Metrics,
	}
}

// Hydrate replaces in-memory state with the persisted snapshot. A failed load
// leaves the store empty and marks it unloaded until a later load succeeds.
// Lines with a non-positive quantity are dropped.
func (s *Store) Hydrate(ctx context.Context) {
	if s.storage == nil {
		return
	}
	snap, err := s.storage.Load(ctx, s.owner)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.unloaded = true
		s.storageFailed(ctx, opLoad, err)
		return
	}
	s.unloaded = false
	s.items = s.items[:0]
	s.wishlist = s.wishlist[:0]
	if snap == nil {
		return
	}
	for _, item := range snap.Items {
		if item.Quantity < 1 || s.indexOf(item.ID) >= 0 {
			continue
		}
		s.items = append(s.items, item)
	}
	for _, p := range snap.Wishlist {
		if s.wishlistIndex(p.ID) >= 0 {
			continue
		}
		s.wishlist = append(s.wishlist, p)
	}
}

// AddToCart increments an existing line or appends a new one with quantity 1.
func (s *Store) AddToCart(ctx context.Context, product Product) {
	s.mutate(ctx, func() {
		if idx := s.indexOf(product.ID); idx >= 0 {
			s.items[idx].Quantity++
			return
		}
		s.items = append(s.items, Item{Product: product, Quantity: 1})
	})
}

// RemoveFromCart deletes the line; absent ids are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, productID uuid.UUID) {
	s.mutate(ctx, func() {
		s.removeLine(productID)
	})
}

// UpdateQuantity sets the quantity directly. Zero or negative removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) {
	s.mutate(ctx, func() {
		if quantity <= 0 {
			s.removeLine(productID)
			return
		}
		if idx := s.indexOf(productID); idx >= 0 {
			s.items[idx].Quantity = quantity
		}
	})
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mutate(ctx, func() {
		s.items = nil
	})
}

func (s *Store) AddToWishlist(ctx context.Context, product Product) {
	s.mutate(ctx, func() {
		if s.wishlistIndex(product.ID) >= 0 {
			return
		}
		s.wishlist = append(s.wishlist, product)
	})
}

func (s *Store) RemoveFromWishlist(ctx context.Context, productID uuid.UUID) {
	s.mutate(ctx, func() {
		if idx := s.wishlistIndex(productID); idx >= 0 {
			s.wishlist = append(s.wishlist[:idx], s.wishlist[idx+1:]...)
		}
	})
}

// CartTotal is Σ price × quantity, unrounded.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CartCount is Σ quantity.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Wishlist() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, len(s.wishlist))
	copy(out, s.wishlist)
	return out
}

func (s *Store) InWishlist(productID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlistIndex(productID) >= 0
}

// Hash fingerprints the cart lines (product, seller, price, quantity) so a
// computed breakdown can be matched to the cart it was computed for.
func (s *Store) Hash() string {
	return HashItems(s.Items())
}

// HashItems is the order-independent fingerprint used by Store.Hash.
func HashItems(items []Item) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		seller := ""
		if item.SellerID != nil {
			seller = item.SellerID.String()
		}
		lines = append(lines, item.ID.String()+"|"+seller+"|"+item.Price.String()+"|"+strconv.Itoa(item.Quantity))
	}
	sort.Strings(lines)
	h := sha256.New()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// mutate applies fn and persists the result. An unloaded store retries the
// load first so fn runs against the stored cart; if that fails again the
// change stays in memory only.
func (s *Store) mutate(ctx context.Context, fn func()) {
	if s.storage != nil && s.isUnloaded() {
		s.Hydrate(ctx)
	}

	s.mu.Lock()
	fn()
	snap := Snapshot{
		Items:    append([]Item(nil), s.items...),
		Wishlist: append([]Product(nil), s.wishlist...),
		SavedAt:  time.Now().UTC(),
	}
	unloaded := s.unloaded
	s.mu.Unlock()

	if s.storage == nil {
		return
	}
	if unloaded {
		if s.metrics != nil {
			s.metrics.IncStorageFailure(opSkip)
		}
		s.logg.Warn(s.logg.WithField(ctx, "cart_owner", s.owner), "cart save skipped, stored cart not loaded")
		return
	}
	if err := s.storage.Save(ctx, s.owner, snap); err != nil {
		s.storageFailed(ctx, opSave, err)
	}
}

func (s *Store) isUnloaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unloaded
}

func (s *Store) storageFailed(ctx context.Context, op string, err error) {
	if s.metrics != nil {
		s.metrics.IncStorageFailure(op)
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"cart_owner": s.owner,
		"op":         op,
		"error":      err.Error(),
	})
	s.logg.Warn(logCtx, "cart storage failed")
}

func (s *Store) removeLine(productID uuid.UUID) {
	if idx := s.indexOf(productID); idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
}

func (s *Store) indexOf(productID uuid.UUID) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) wishlistIndex(productID uuid.UUID) int {
	for i := range s.wishlist {
		if s.wishlist[i].ID == productID {
			return i
		}
	}
	return -1
}
