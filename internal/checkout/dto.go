package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/types"
)

// SessionView is the checkout wizard as returned to the shopper.
type SessionView struct {
	ID               uuid.UUID              `json:"id"`
	Step             enums.CheckoutStep     `json:"step"`
	StepIndex        int                    `json:"step_index"`
	AddressID        *uuid.UUID             `json:"address_id,omitempty"`
	Address          *types.ShippingAddress `json:"address,omitempty"`
	Breakdown        *Breakdown             `json:"breakdown,omitempty"`
	PaymentMethod    *enums.PaymentMethod   `json:"payment_method,omitempty"`
	PaymentConfirmed bool                   `json:"payment_confirmed"`
	CanSubmit        bool                   `json:"can_submit"`
	OrderID          *uuid.UUID             `json:"order_id,omitempty"`
	OrderNumber      *string                `json:"order_number,omitempty"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// SubmitInput carries the UPI payment proof. It is ignored for COD.
type SubmitInput struct {
	TransactionReference string
	PaidConfirmed        bool
}

// SubmitResult identifies the placed order. Duplicate is set when the attempt
// had already produced an order.
type SubmitResult struct {
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	GrandTotal    decimal.Decimal     `json:"grand_total"`
	Duplicate     bool                `json:"duplicate"`
}

// AddressSelection picks either a saved address or an inline one.
type AddressSelection struct {
	AddressID *uuid.UUID
	Address   *types.ShippingAddress
}

func newSessionView(s *Session) *SessionView {
	view := &SessionView{
		ID:               s.ID,
		Step:             s.Step,
		StepIndex:        s.Step.Index(),
		AddressID:        s.AddressID,
		Address:          s.Address,
		Breakdown:        s.Breakdown,
		PaymentMethod:    s.PaymentMethod,
		PaymentConfirmed: s.PaymentConfirmed,
		OrderID:          s.OrderID,
		OrderNumber:      s.OrderNumber,
		UpdatedAt:        s.UpdatedAt,
	}
	view.CanSubmit = s.Step == enums.CheckoutStepReview && s.CanSubmit() == nil
	return view
}
