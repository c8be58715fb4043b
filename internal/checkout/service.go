package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/internal/cart"
	"github.com/angelmondragon/sellerbazaar-backend/internal/checkout/helpers"
	"github.com/angelmondragon/sellerbazaar-backend/internal/orders"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/outbox"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

const idempotencyConstraint = "ux_orders_idempotency_key"

// Submit failure reasons reported to metrics.
const (
	failureValidation  = "validation"
	failureCartChanged = "cart_changed"
	failurePersist     = "persist"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartOpener interface {
	Open(ctx context.Context, shopperID uuid.UUID) *cart.Store
}

type addressReader interface {
	Get(ctx context.Context, shopperID, addressID uuid.UUID) (*models.SavedAddress, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type checkoutMetrics interface {
	profileMetrics
	IncOrderPlaced(method string)
	IncSubmitFailure(reason string)
	IncStaleCharges()
}

// Service drives the checkout wizard for one shopper at a time.
type Service interface {
	Start(ctx context.Context, shopperID uuid.UUID) (*SessionView, error)
	Get(ctx context.Context, shopperID uuid.UUID) (*SessionView, error)
	SelectAddress(ctx context.Context, shopperID uuid.UUID, selection AddressSelection) (*SessionView, error)
	RefreshCharges(ctx context.Context, shopperID uuid.UUID) (*SessionView, error)
	ChoosePayment(ctx context.Context, shopperID uuid.UUID, method enums.PaymentMethod) (*SessionView, error)
	Review(ctx context.Context, shopperID uuid.UUID) (*SessionView, error)
	Back(ctx context.Context, shopperID uuid.UUID) (*SessionView, error)
	Submit(ctx context.Context, shopperID uuid.UUID, input SubmitInput) (*SubmitResult, error)
}

// ServiceParams wires the checkout collaborators.
type ServiceParams struct {
	Tx                  txRunner
	Sessions            SessionStore
	Carts               cartOpener
	Addresses           addressReader
	Profiles            profileReader
	Orders              orders.Repository
	Outbox              outboxPublisher
	Logger              *logger.Logger
	Metrics             checkoutMetrics
	Policy              enums.PaymentMethodPolicy
	ProfileFetchTimeout time.Duration
	Now                 func() time.Time
}

type service struct {
	tx        txRunner
	sessions  SessionStore
	carts     cartOpener
	addresses addressReader
	orders    orders.Repository
	outbox    outboxPublisher
	logg      *logger.Logger
	metrics   checkoutMetrics
	policy    enums.PaymentMethodPolicy
	fetcher   profileFetcher
	now       func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address reader required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("seller profile reader required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.ProfileFetchTimeout <= 0 {
		return nil, fmt.Errorf("profile fetch timeout must be positive")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	policy := params.Policy
	if !policy.IsValid() {
		policy = enums.PaymentMethodPolicyAny
	}
	return &service{
		tx:        params.Tx,
		sessions:  params.Sessions,
		carts:     params.Carts,
		addresses: params.Addresses,
		orders:    params.Orders,
		outbox:    params.Outbox,
		logg:      params.Logger,
		metrics:   params.Metrics,
		policy:    policy,
		fetcher: profileFetcher{
			reader:  params.Profiles,
			timeout: params.ProfileFetchTimeout,
			logg:    params.Logger,
			metrics: params.Metrics,
		},
		now: params.Now,
	}, nil
}

// Start resumes the shopper's open checkout or begins a new one at the
// address step. A completed session is replaced, so an order id is never
// reused for a second cart.
func (s *service) Start(ctx context.Context, shopperID uuid.UUID) (*SessionView, error) {
	if err := requireShopper(shopperID); err != nil {
		return nil, err
	}
	store := s.carts.Open(ctx, shopperID)
	if len(store.Items()) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	session, err := s.loadSession(ctx, shopperID)
	if errors.Is(err, ErrCorruptSession) {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "discarding unreadable checkout session")
		if delErr := s.sessions.Delete(ctx, shopperID); delErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, delErr, "delete checkout session")
		}
		session, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsComplete() {
		session = NewSession(shopperID, s.now().UTC())
		session.CartHash = store.Hash()
	} else if session.CartHash != store.Hash() && session.Step == enums.CheckoutStepReview {
		session.ReturnToPayment(store.Hash())
	} else {
		session.SyncCart(store.Hash())
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return newSessionView(session), nil
}

func (s *service) Get(ctx context.Context, shopperID uuid.UUID) (*SessionView, error) {
	session, err := s.requireSession(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	return newSessionView(session), nil
}

// SelectAddress records the shared shipping address, moves to the payment step
// and computes charges.
func (s *service) SelectAddress(ctx context.Context, shopperID uuid.UUID, selection AddressSelection) (*SessionView, error) {
	session, err := s.requireSession(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	addr, err := s.resolveAddress(ctx, shopperID, selection)
	if err != nil {
		return nil, err
	}
	if err := session.SetAddress(addr, selection.AddressID); err != nil {
		return nil, err
	}

	store := s.carts.Open(ctx, shopperID)
	if len(store.Items()) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}
	if err := session.ProceedToPayment(store.Hash()); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return s.refresh(ctx, shopperID, store)
}

// RefreshCharges recomputes the breakdown for the current cart. A result that
// arrives after the session moved on is discarded.
func (s *service) RefreshCharges(ctx context.Context, shopperID uuid.UUID) (*SessionView, error) {
	if err := requireShopper(shopperID); err != nil {
		return nil, err
	}
	store := s.carts.Open(ctx, shopperID)
	if len(store.Items()) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}
	return s.refresh(ctx, shopperID, store)
}

func (s *service) refresh(ctx context.Context, shopperID uuid.UUID, store *cart.Store) (*SessionView, error) {
	session, err := s.requireSession(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	session.SyncCart(store.Hash())
	token, err := session.BeginChargesFetch()
	if err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	items := store.Items()
	sellerIDs := helpers.SellerIDs(helpers.GroupItemsBySeller(items))
	profiles := s.fetcher.fetch(ctx, sellerIDs)
	breakdown := Aggregate(items, profiles, s.policy)

	latest, err := s.requireSession(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if !latest.ApplyBreakdown(token, breakdown) {
		if s.metrics != nil {
			s.metrics.IncStaleCharges()
		}
		s.logg.Info(s.logg.WithField(ctx, "session_id", latest.ID.String()), "discarded stale charge breakdown")
		return newSessionView(latest), nil
	}
	if err := s.saveSession(ctx, latest); err != nil {
		return nil, err
	}
	return newSessionView(latest), nil
}

func (s *service) ChoosePayment(ctx context.Context, shopperID uuid.UUID, method enums.PaymentMethod) (*SessionView, error) {
	return s.mutate(ctx, shopperID, func(session *Session) error {
		return session.ChoosePayment(method)
	})
}

func (s *service) Review(ctx context.Context, shopperID uuid.UUID) (*SessionView, error) {
	store := s.carts.Open(ctx, shopperID)
	return s.mutate(ctx, shopperID, func(session *Session) error {
		if session.Breakdown != nil && session.Breakdown.CartHash != store.Hash() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart changed, refresh charges")
		}
		return session.ProceedToReview()
	})
}

func (s *service) Back(ctx context.Context, shopperID uuid.UUID) (*SessionView, error) {
	return s.mutate(ctx, shopperID, func(session *Session) error {
		return session.Back()
	})
}

// Submit places the order for a reviewed session. The session id is the
// idempotency key: repeating a submission returns the order the first attempt
// created.
func (s *service) Submit(ctx context.Context, shopperID uuid.UUID, input SubmitInput) (*SubmitResult, error) {
	session, err := s.requireSession(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithField(ctx, "session_id", session.ID.String())

	if session.IsComplete() {
		existing, err := s.findExisting(ctx, session)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already completed")
		}
		return submitResult(existing, true), nil
	}

	if err := session.SetPaymentProof(input.TransactionReference, input.PaidConfirmed); err != nil {
		s.submitFailed(failureValidation)
		return nil, err
	}
	if err := session.CanSubmit(); err != nil {
		s.submitFailed(failureValidation)
		return nil, err
	}

	store := s.carts.Open(ctx, shopperID)
	hash := store.Hash()
	if hash != session.Breakdown.CartHash || len(store.Items()) == 0 {
		session.ReturnToPayment(hash)
		if err := s.saveSession(ctx, session); err != nil {
			return nil, err
		}
		s.submitFailed(failureCartChanged)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart changed since review").
			WithDetails(map[string]string{"step": string(session.Step)})
	}

	order, duplicate, err := s.placeOrder(ctx, session, store.Items())
	if err != nil {
		s.submitFailed(failurePersist)
		return nil, err
	}

	store.ClearCart(ctx)
	if err := session.Complete(order.ID, order.OrderNumber); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, session); err != nil {
		s.logg.Error(ctx, "failed to save completed checkout session", err)
	}
	if !duplicate && s.metrics != nil {
		s.metrics.IncOrderPlaced(string(order.PaymentMethod))
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"duplicate":    duplicate,
	}), "checkout submitted")
	return submitResult(order, duplicate), nil
}

// placeOrder writes header, lines and the order.placed event in one
// transaction. A concurrent attempt with the same key yields its order.
func (s *service) placeOrder(ctx context.Context, session *Session, items []cart.Item) (*models.Order, bool, error) {
	order, lines, err := buildOrder(session, items, s.now().UTC())
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build order")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).CreateOrder(ctx, order, lines); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:   enums.EventOrderPlaced,
			AggregateID: order.ID,
			Actor:       &outbox.ActorRef{ShopperID: session.ShopperID},
			Data: payloads.OrderPlacedEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				ShopperID:     order.ShopperID,
				SellerIDs:     helpers.SellerIDs(helpers.GroupItemsBySeller(items)),
				PaymentMethod: order.PaymentMethod,
				GrandTotal:    order.GrandTotal,
				LineCount:     len(lines),
			},
		})
	})
	if err == nil {
		return order, false, nil
	}
	if db.IsUniqueViolation(err, idempotencyConstraint) {
		existing, findErr := s.findExisting(ctx, session)
		if findErr != nil {
			return nil, false, findErr
		}
		if existing != nil {
			return existing, true, nil
		}
	}
	return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
}

func (s *service) findExisting(ctx context.Context, session *Session) (*models.Order, error) {
	order, err := s.orders.FindByIdempotencyKey(ctx, session.ID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order by idempotency key")
	}
	return order, nil
}

func (s *service) resolveAddress(ctx context.Context, shopperID uuid.UUID, selection AddressSelection) (types.ShippingAddress, error) {
	if selection.AddressID != nil {
		saved, err := s.addresses.Get(ctx, shopperID, *selection.AddressID)
		if err != nil {
			return types.ShippingAddress{}, err
		}
		return saved.Shipping(), nil
	}
	if selection.Address != nil {
		return *selection.Address, nil
	}
	return types.ShippingAddress{}, pkgerrors.Field(pkgerrors.CodeValidation, "address", "address_id or address is required")
}

func (s *service) mutate(ctx context.Context, shopperID uuid.UUID, fn func(*Session) error) (*SessionView, error) {
	session, err := s.requireSession(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return newSessionView(session), nil
}

func (s *service) requireSession(ctx context.Context, shopperID uuid.UUID) (*Session, error) {
	if err := requireShopper(shopperID); err != nil {
		return nil, err
	}
	session, err := s.loadSession(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no checkout in progress")
	}
	return session, nil
}

func (s *service) loadSession(ctx context.Context, shopperID uuid.UUID) (*Session, error) {
	session, err := s.sessions.Load(ctx, shopperID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}
	if session == nil || session.Step != enums.CheckoutStepReview {
		return session, nil
	}
	if err := s.settlePlaced(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// settlePlaced completes a reviewed session whose order was committed but
// whose completed state never reached the store. Only the review step can
// have submitted, so other steps skip the lookup.
func (s *service) settlePlaced(ctx context.Context, session *Session) error {
	order, err := s.findExisting(ctx, session)
	if err != nil || order == nil {
		return err
	}
	session.markPlaced(order.ID, order.OrderNumber)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"session_id":   session.ID.String(),
		"order_number": order.OrderNumber,
	})
	if err := s.saveSession(ctx, session); err != nil {
		s.logg.Error(ctx, "failed to save recovered checkout session", err)
		return nil
	}
	s.logg.Info(ctx, "recovered completed checkout session")
	return nil
}

func (s *service) saveSession(ctx context.Context, session *Session) error {
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout session")
	}
	return nil
}

func (s *service) submitFailed(reason string) {
	if s.metrics != nil {
		s.metrics.IncSubmitFailure(reason)
	}
}

func submitResult(order *models.Order, duplicate bool) *SubmitResult {
	return &SubmitResult{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		PaymentMethod: order.PaymentMethod,
		GrandTotal:    order.GrandTotal,
		Duplicate:     duplicate,
	}
}

func requireShopper(shopperID uuid.UUID) error {
	if shopperID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "shopper required")
	}
	return nil
}
