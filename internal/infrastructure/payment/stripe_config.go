package payment

import (
	"errors"

	"github.com/stripe/stripe-go/v81"
)

// ErrConfigMissingAPIKey indicates the adapter was built without an API key
var ErrConfigMissingAPIKey = errors.New("stripe: config missing API key")

// StripeConfig contains configuration for the Stripe adapter
type StripeConfig struct {
	// APIKey is the publishable/secret key for the storefront's account
	APIKey string
	// Currency for payment confirmation display (ISO 4217, lowercase)
	Currency string
}

// Validate checks the configuration
func (c *StripeConfig) Validate() error {
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.Currency == "" {
		c.Currency = "inr"
	}
	return nil
}

// InitStripeClient sets the package-level Stripe key
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.APIKey
}
