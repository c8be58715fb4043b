package checkout

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/internal/orders"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sellerbazaar-backend/pkg/errors"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

// Session is the checkout wizard state of one shopper. Its ID doubles as the
// idempotency key of the order the attempt produces.
//
// Transitions: address -> payment -> review -> complete, with Back allowed
// until complete.
type Session struct {
	ID               uuid.UUID              `json:"id"`
	ShopperID        uuid.UUID              `json:"shopper_id"`
	Step             enums.CheckoutStep     `json:"step"`
	AddressID        *uuid.UUID             `json:"address_id,omitempty"`
	Address          *types.ShippingAddress `json:"address,omitempty"`
	Generation       int64                  `json:"generation"`
	CartHash         string                 `json:"cart_hash"`
	Breakdown        *Breakdown             `json:"breakdown,omitempty"`
	PaymentMethod    *enums.PaymentMethod   `json:"payment_method,omitempty"`
	PaymentReference string                 `json:"payment_reference,omitempty"`
	PaymentConfirmed bool                   `json:"payment_confirmed"`
	OrderID          *uuid.UUID             `json:"order_id,omitempty"`
	OrderNumber      *string                `json:"order_number,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// FetchToken identifies the session state a charges fetch was started for.
type FetchToken struct {
	Generation int64
	CartHash   string
}

func NewSession(shopperID uuid.UUID, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		ShopperID: shopperID,
		Step:      enums.CheckoutStepAddress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) IsComplete() bool {
	return s.Step == enums.CheckoutStepComplete
}

// SetAddress records the shared shipping address and returns the wizard to the
// address step. In-flight charge fetches are invalidated.
func (s *Session) SetAddress(addr types.ShippingAddress, addressID *uuid.UUID) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	addr = addr.Normalize()
	if err := addr.Validate(); err != nil {
		return err
	}
	s.Address = &addr
	s.AddressID = addressID
	s.Step = enums.CheckoutStepAddress
	s.Generation++
	s.clearProof()
	return nil
}

// ProceedToPayment moves from address to payment. A changed cart drops the
// previous breakdown and payment selection.
func (s *Session) ProceedToPayment(cartHash string) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if s.Address == nil {
		return pkgerrors.Field(pkgerrors.CodeValidation, "address", "select a shipping address first")
	}
	if s.Step == enums.CheckoutStepReview {
		return stepConflict(s.Step, enums.CheckoutStepPayment)
	}
	s.Step = enums.CheckoutStepPayment
	s.Generation++
	s.SyncCart(cartHash)
	return nil
}

// SyncCart records the current cart fingerprint; a different cart invalidates
// the breakdown and the payment choice.
func (s *Session) SyncCart(cartHash string) {
	if s.CartHash == cartHash {
		return
	}
	s.CartHash = cartHash
	s.Breakdown = nil
	s.PaymentMethod = nil
	s.clearProof()
}

// BeginChargesFetch starts a new fetch generation. Results of older fetches
// will be rejected by ApplyBreakdown.
func (s *Session) BeginChargesFetch() (FetchToken, error) {
	if s.Step != enums.CheckoutStepPayment {
		return FetchToken{}, stepConflict(s.Step, enums.CheckoutStepPayment)
	}
	s.Generation++
	return FetchToken{Generation: s.Generation, CartHash: s.CartHash}, nil
}

// ApplyBreakdown stores b when it still matches the session, and reports
// whether it did. When exactly one method is available it is pre-selected; when
// both are, a still-valid previous choice is kept.
func (s *Session) ApplyBreakdown(token FetchToken, b Breakdown) bool {
	if s.Step != enums.CheckoutStepPayment ||
		token.Generation != s.Generation ||
		token.CartHash != s.CartHash ||
		b.CartHash != s.CartHash {
		return false
	}
	s.Breakdown = &b

	methods := b.Availability.Methods()
	switch {
	case len(methods) == 1:
		method := methods[0]
		if s.PaymentMethod == nil || *s.PaymentMethod != method {
			s.clearProof()
		}
		s.PaymentMethod = &method
	case s.PaymentMethod != nil && !b.Availability.Allows(*s.PaymentMethod):
		s.PaymentMethod = nil
		s.clearProof()
	case len(methods) == 0:
		s.PaymentMethod = nil
	}
	return true
}

// ChoosePayment selects one of the methods the breakdown offers.
func (s *Session) ChoosePayment(method enums.PaymentMethod) error {
	if s.Step != enums.CheckoutStepPayment {
		return stepConflict(s.Step, enums.CheckoutStepPayment)
	}
	if s.Breakdown == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "charges have not been computed yet")
	}
	if !method.IsValid() || !s.Breakdown.Availability.Allows(method) {
		return pkgerrors.Field(pkgerrors.CodeValidation, "payment_method", "payment method is not available for this cart")
	}
	if s.PaymentMethod == nil || *s.PaymentMethod != method {
		s.clearProof()
	}
	s.PaymentMethod = &method
	return nil
}

func (s *Session) ProceedToReview() error {
	if s.Step != enums.CheckoutStepPayment {
		return stepConflict(s.Step, enums.CheckoutStepReview)
	}
	if s.Breakdown == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "charges have not been computed yet")
	}
	if s.PaymentMethod == nil {
		return pkgerrors.Field(pkgerrors.CodeValidation, "payment_method", "choose a payment method")
	}
	s.Step = enums.CheckoutStepReview
	return nil
}

// SetPaymentProof records the UPI transaction reference and the shopper's
// confirmation that they paid. COD needs no proof.
func (s *Session) SetPaymentProof(reference string, confirmed bool) error {
	if s.Step != enums.CheckoutStepReview {
		return stepConflict(s.Step, enums.CheckoutStepReview)
	}
	if s.PaymentMethod == nil || !s.PaymentMethod.Prepaid() {
		return nil
	}
	s.PaymentReference = strings.TrimSpace(reference)
	s.PaymentConfirmed = confirmed
	return nil
}

// CanSubmit returns nil when the order can be placed.
func (s *Session) CanSubmit() error {
	if s.Step != enums.CheckoutStepReview {
		return stepConflict(s.Step, enums.CheckoutStepComplete)
	}
	if s.Address == nil || s.Breakdown == nil || s.PaymentMethod == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is missing address, charges or payment method")
	}
	if !s.PaymentMethod.Prepaid() {
		return nil
	}
	details := map[string]string{}
	if s.PaymentReference == "" {
		details["transaction_reference"] = "enter the UPI transaction reference"
	}
	if !s.PaymentConfirmed {
		details["paid_confirmation"] = "confirm that you have paid"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment proof required").WithDetails(details)
	}
	return nil
}

// PaymentNote is the note stored on the order for the chosen method.
func (s *Session) PaymentNote() string {
	if s.PaymentMethod == nil {
		return ""
	}
	return orders.PaymentNote(*s.PaymentMethod, s.PaymentReference)
}

// Back moves one step towards the address step. It is not allowed once the
// order is complete.
func (s *Session) Back() error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	switch s.Step {
	case enums.CheckoutStepReview:
		s.Step = enums.CheckoutStepPayment
		s.PaymentConfirmed = false
	case enums.CheckoutStepPayment:
		s.Step = enums.CheckoutStepAddress
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "already at the first checkout step")
	}
	s.Generation++
	return nil
}

// ReturnToPayment sends a reviewed session back to payment after the cart
// changed underneath it.
func (s *Session) ReturnToPayment(cartHash string) {
	if s.IsComplete() {
		return
	}
	s.Step = enums.CheckoutStepPayment
	s.Generation++
	s.SyncCart(cartHash)
}

// Complete marks the order as placed. No transition leaves this state.
func (s *Session) Complete(orderID uuid.UUID, orderNumber string) error {
	if err := s.CanSubmit(); err != nil {
		return err
	}
	s.markPlaced(orderID, orderNumber)
	return nil
}

// markPlaced records an order already written under the session id, whatever
// step the session was left at.
func (s *Session) markPlaced(orderID uuid.UUID, orderNumber string) {
	s.Step = enums.CheckoutStepComplete
	s.OrderID = &orderID
	s.OrderNumber = &orderNumber
}

func (s *Session) requireOpen() error {
	if s.IsComplete() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already completed")
	}
	return nil
}

func (s *Session) clearProof() {
	s.PaymentReference = ""
	s.PaymentConfirmed = false
}

func stepConflict(current, target enums.CheckoutStep) error {
	return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move to %s from %s", target, current).
		WithDetails(map[string]string{"step": string(current)})
}
