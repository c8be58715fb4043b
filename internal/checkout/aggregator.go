package checkout

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/internal/cart"
	"github.com/angelmondragon/sellerbazaar-backend/internal/checkout/helpers"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
)

const unknownSellerName = "Marketplace seller"

var hundred = decimal.NewFromInt(100)

// SellerCartTotal is the charge breakdown of one seller bucket.
type SellerCartTotal struct {
	SellerID            *uuid.UUID      `json:"seller_id"`
	DisplayName         string          `json:"display_name"`
	Items               []cart.Item     `json:"items"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Shipping            decimal.Decimal `json:"shipping"`
	FreeShippingApplied bool            `json:"free_shipping_applied"`
	GST                 decimal.Decimal `json:"gst"`
	GSTRate             decimal.Decimal `json:"gst_rate"`
	ConvenienceFee      decimal.Decimal `json:"convenience_fee"`
	Total               decimal.Decimal `json:"total"`
	AcceptsUPI          bool            `json:"accepts_upi"`
	AcceptsCOD          bool            `json:"accepts_cod"`
	UPIID               *string         `json:"upi_id,omitempty"`
	QRImageURL          *string         `json:"qr_image_url,omitempty"`
	PaymentInstructions string          `json:"payment_instructions,omitempty"`
	// Fallback marks buckets priced with default charges because no active
	// profile was available.
	Fallback bool `json:"fallback"`
}

// PaymentAvailability is the cart-wide set of offered payment methods.
type PaymentAvailability struct {
	UPI bool `json:"upi"`
	COD bool `json:"cod"`
}

func (a PaymentAvailability) Allows(method enums.PaymentMethod) bool {
	switch method {
	case enums.PaymentMethodUPI:
		return a.UPI
	case enums.PaymentMethodCOD:
		return a.COD
	}
	return false
}

// Methods lists the offered methods, UPI first.
func (a PaymentAvailability) Methods() []enums.PaymentMethod {
	methods := make([]enums.PaymentMethod, 0, 2)
	if a.UPI {
		methods = append(methods, enums.PaymentMethodUPI)
	}
	if a.COD {
		methods = append(methods, enums.PaymentMethodCOD)
	}
	return methods
}

// Breakdown is the full charge computation for a cart.
type Breakdown struct {
	Sellers        []SellerCartTotal         `json:"sellers"`
	Subtotal       decimal.Decimal           `json:"subtotal"`
	Shipping       decimal.Decimal           `json:"shipping"`
	GST            decimal.Decimal           `json:"gst"`
	ConvenienceFee decimal.Decimal           `json:"convenience_fee"`
	GrandTotal     decimal.Decimal           `json:"grand_total"`
	Availability   PaymentAvailability       `json:"availability"`
	Policy         enums.PaymentMethodPolicy `json:"policy"`
	CartHash       string                    `json:"cart_hash"`
}

// Aggregate prices every seller bucket of the cart and folds the result into
// cart-wide totals and payment availability. It never fails: lines without a
// seller and sellers without a profile are priced with zero charges and COD only.
func Aggregate(items []cart.Item, profiles []models.SellerPaymentProfile, policy enums.PaymentMethodPolicy) Breakdown {
	if !policy.IsValid() {
		policy = enums.PaymentMethodPolicyAny
	}
	bySeller := make(map[uuid.UUID]models.SellerPaymentProfile, len(profiles))
	for _, p := range profiles {
		bySeller[p.SellerID] = p
	}

	out := Breakdown{
		Sellers:        []SellerCartTotal{},
		Subtotal:       decimal.Zero,
		Shipping:       decimal.Zero,
		GST:            decimal.Zero,
		ConvenienceFee: decimal.Zero,
		Policy:         policy,
		CartHash:       cart.HashItems(items),
	}

	for _, bucket := range helpers.GroupItemsBySeller(items) {
		var profile *models.SellerPaymentProfile
		if bucket.SellerID != nil {
			if p, ok := bySeller[*bucket.SellerID]; ok {
				profile = &p
			}
		}
		total := priceBucket(bucket, profile)
		out.Sellers = append(out.Sellers, total)
		out.Subtotal = out.Subtotal.Add(total.Subtotal)
		out.Shipping = out.Shipping.Add(total.Shipping)
		out.GST = out.GST.Add(total.GST)
		out.ConvenienceFee = out.ConvenienceFee.Add(total.ConvenienceFee)
	}

	out.GrandTotal = out.Subtotal.Add(out.Shipping).Add(out.GST).Add(out.ConvenienceFee)
	out.Availability = availability(out.Sellers, policy)
	return out
}

func priceBucket(bucket helpers.SellerBucket, profile *models.SellerPaymentProfile) SellerCartTotal {
	subtotal := bucket.Subtotal()
	total := SellerCartTotal{
		SellerID:       bucket.SellerID,
		DisplayName:    unknownSellerName,
		Items:          bucket.Items,
		Subtotal:       subtotal,
		Shipping:       decimal.Zero,
		GST:            decimal.Zero,
		GSTRate:        decimal.Zero,
		ConvenienceFee: decimal.Zero,
		AcceptsCOD:     true,
	}
	if profile == nil {
		total.Fallback = true
		total.Total = subtotal
		return total
	}

	if name := strings.TrimSpace(profile.DisplayName); name != "" {
		total.DisplayName = name
	}
	total.Shipping = shippingFor(subtotal, *profile)
	total.FreeShippingApplied = profile.FreeShippingAbove.Valid && total.Shipping.IsZero() && profile.ShippingCharge.IsPositive()
	if profile.GSTEnabled {
		total.GSTRate = profile.GSTRate
		total.GST = subtotal.Mul(profile.GSTRate).Div(hundred)
	}
	if profile.ConvenienceFeeEnabled {
		total.ConvenienceFee = profile.ConvenienceFee
	}
	total.Total = subtotal.Add(total.Shipping).Add(total.GST).Add(total.ConvenienceFee)

	total.AcceptsUPI = profile.AcceptsUPI()
	total.AcceptsCOD = profile.AllowsCOD()
	total.UPIID = profile.UPIID
	total.QRImageURL = profile.QRImageURL
	total.PaymentInstructions = profile.PaymentInstructions
	return total
}

// shippingFor waives the base charge when a threshold is set and met.
func shippingFor(subtotal decimal.Decimal, profile models.SellerPaymentProfile) decimal.Decimal {
	if profile.FreeShippingAbove.Valid && subtotal.GreaterThanOrEqual(profile.FreeShippingAbove.Decimal) {
		return decimal.Zero
	}
	return profile.ShippingCharge
}

// availability folds per-seller acceptance into cart-wide options.
//
// Under PaymentMethodPolicyAny a method is offered when at least one bucket
// accepts it, and COD is always offered when no bucket carries profile data.
// Under PaymentMethodPolicyIntersection every bucket must accept the method.
func availability(sellers []SellerCartTotal, policy enums.PaymentMethodPolicy) PaymentAvailability {
	if len(sellers) == 0 {
		return PaymentAvailability{COD: true}
	}

	if policy == enums.PaymentMethodPolicyIntersection {
		out := PaymentAvailability{UPI: true, COD: true}
		for _, s := range sellers {
			out.UPI = out.UPI && s.AcceptsUPI
			out.COD = out.COD && s.AcceptsCOD
		}
		return out
	}

	var out PaymentAvailability
	profiled := false
	for _, s := range sellers {
		out.UPI = out.UPI || s.AcceptsUPI
		out.COD = out.COD || s.AcceptsCOD
		profiled = profiled || !s.Fallback
	}
	if !profiled {
		out.COD = true
	}
	return out
}
