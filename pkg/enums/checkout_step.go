package enums

import "fmt"

// CheckoutStep is a state of the checkout wizard.
type CheckoutStep string

const (
	CheckoutStepAddress  CheckoutStep = "address"
	CheckoutStepPayment  CheckoutStep = "payment"
	CheckoutStepReview   CheckoutStep = "review"
	CheckoutStepComplete CheckoutStep = "complete"
)

var checkoutStepOrder = []CheckoutStep{
	CheckoutStepAddress,
	CheckoutStepPayment,
	CheckoutStepReview,
	CheckoutStepComplete,
}

func (s CheckoutStep) String() string {
	return string(s)
}

func (s CheckoutStep) IsValid() bool {
	return s.Index() >= 0
}

// Index returns the position of the step in the wizard, or -1.
func (s CheckoutStep) Index() int {
	for i, candidate := range checkoutStepOrder {
		if candidate == s {
			return i
		}
	}
	return -1
}

func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range checkoutStepOrder {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
