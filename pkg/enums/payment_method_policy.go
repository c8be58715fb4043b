package enums

import (
	"fmt"
	"strings"
)

// PaymentMethodPolicy decides how per-seller acceptance folds into the
// cart-wide payment options.
type PaymentMethodPolicy string

const (
	// PaymentMethodPolicyAny offers a method when at least one seller accepts it.
	PaymentMethodPolicyAny PaymentMethodPolicy = "any"
	// PaymentMethodPolicyIntersection offers a method only when every seller accepts it.
	PaymentMethodPolicyIntersection PaymentMethodPolicy = "intersection"
)

var validPaymentMethodPolicies = []PaymentMethodPolicy{
	PaymentMethodPolicyAny,
	PaymentMethodPolicyIntersection,
}

func (p PaymentMethodPolicy) String() string {
	return string(p)
}

func (p PaymentMethodPolicy) IsValid() bool {
	for _, candidate := range validPaymentMethodPolicies {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethodPolicy converts raw config into a policy. Empty input maps to any.
func ParsePaymentMethodPolicy(value string) (PaymentMethodPolicy, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return PaymentMethodPolicyAny, nil
	}
	for _, candidate := range validPaymentMethodPolicies {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method policy %q", value)
}
