package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod is chosen once per order and applies to every seller in it.
type PaymentMethod string

const (
	// PaymentMethodUPI is paid up front to each seller's UPI id.
	PaymentMethodUPI PaymentMethod = "upi"
	// PaymentMethodCOD is collected by each seller's courier on delivery.
	PaymentMethodCOD PaymentMethod = "cod"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodUPI: "UPI",
	PaymentMethodCOD: "Cash on delivery",
}

func (p PaymentMethod) String() string {
	return string(p)
}

func (p PaymentMethod) IsValid() bool {
	_, ok := paymentMethodLabels[p]
	return ok
}

// Label is the shopper-facing name.
func (p PaymentMethod) Label() string {
	if label, ok := paymentMethodLabels[p]; ok {
		return label
	}
	return string(p)
}

// Prepaid reports whether the shopper settles before the order is placed,
// which means checkout has to collect a payment reference.
func (p PaymentMethod) Prepaid() bool {
	return p == PaymentMethodUPI
}

// ParsePaymentMethod accepts the wire value in any case.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToLower(strings.TrimSpace(value)))
	if !method.IsValid() {
		return "", fmt.Errorf("invalid payment method %q", value)
	}
	return method, nil
}
