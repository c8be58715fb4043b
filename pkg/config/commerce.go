package config

import (
	"fmt"
	"strings"
	"time"
)

type CartConfig struct {
	// StorageTTL of zero keeps carts until they are cleared.
	StorageTTL time.Duration `envconfig:"SELLERBAZAAR_CART_STORAGE_TTL" default:"0"`
}

type CheckoutConfig struct {
	ProfileFetchTimeout time.Duration `envconfig:"SELLERBAZAAR_CHECKOUT_PROFILE_FETCH_TIMEOUT" default:"3s"`
	SessionTTL          time.Duration `envconfig:"SELLERBAZAAR_CHECKOUT_SESSION_TTL" default:"2h"`
	// PaymentPolicy is any or intersection; see enums.PaymentMethodPolicy.
	PaymentPolicy string `envconfig:"SELLERBAZAAR_CHECKOUT_PAYMENT_POLICY" default:"any"`
}

func (c CheckoutConfig) validate() error {
	var errs []string
	switch strings.ToLower(strings.TrimSpace(c.PaymentPolicy)) {
	case "any", "intersection":
	default:
		errs = append(errs, fmt.Sprintf("%s must be any or intersection, got %q", EnvCheckoutPaymentPolicy, c.PaymentPolicy))
	}
	if c.ProfileFetchTimeout <= 0 {
		errs = append(errs, EnvCheckoutProfileTimeout+" must be positive")
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, EnvCheckoutSessionTTL+" must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// IdempotencyConfig sets how long Idempotency-Key responses replay. InFlight
// bounds how long a crashed request can block its key.
type IdempotencyConfig struct {
	AddressTTL  time.Duration `envconfig:"SELLERBAZAAR_IDEMPOTENCY_ADDRESS_TTL" default:"24h"`
	CheckoutTTL time.Duration `envconfig:"SELLERBAZAAR_IDEMPOTENCY_CHECKOUT_TTL" default:"168h"`
	InFlight    time.Duration `envconfig:"SELLERBAZAAR_IDEMPOTENCY_IN_FLIGHT" default:"30s"`
}

func (c IdempotencyConfig) validate() error {
	switch {
	case c.AddressTTL <= 0, c.CheckoutTTL <= 0, c.InFlight <= 0:
		return fmt.Errorf("idempotency durations must be positive")
	case c.InFlight >= c.CheckoutTTL:
		return fmt.Errorf("%s must be shorter than the checkout ttl", EnvIdempotencyInFlight)
	}
	return nil
}
