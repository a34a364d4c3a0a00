package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"go.uber.org/zap"

	"github.com/maison/storefront/internal/domain/shared"
)

// StripeAdapter confirms payment intents created by the backend. The
// storefront only ever holds the client secret; amounts and capture rules
// live server-side.
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config.InitStripeClient()

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// Confirm confirms the payment intent behind the client secret using the
// given payment method and returns the confirmation id the backend expects
// on order creation. Declines surface as ErrPaymentDeclined with Stripe's
// message attached; nothing is retried.
func (a *StripeAdapter) Confirm(ctx context.Context, clientSecret, paymentMethodID string) (string, error) {
	intentID, err := intentIDFromClientSecret(clientSecret)
	if err != nil {
		return "", err
	}

	params := &stripe.PaymentIntentConfirmParams{}
	params.AddExtra("client_secret", clientSecret)
	if paymentMethodID != "" {
		params.PaymentMethod = stripe.String(paymentMethodID)
	}
	params.Context = ctx

	intent, err := paymentintent.Confirm(intentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			a.logger.Warn("payment confirmation rejected",
				zap.String("intent_id", intentID),
				zap.String("code", string(stripeErr.Code)),
				zap.String("message", stripeErr.Msg))
			return "", fmt.Errorf("%w: %s", shared.ErrPaymentDeclined, stripeErr.Msg)
		}
		return "", fmt.Errorf("stripe: failed to confirm payment: %w", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded &&
		intent.Status != stripe.PaymentIntentStatusProcessing {
		a.logger.Warn("payment intent not captured",
			zap.String("intent_id", intent.ID),
			zap.String("status", string(intent.Status)))
		return "", fmt.Errorf("%w: payment is %s", shared.ErrPaymentDeclined, intent.Status)
	}

	a.logger.Info("payment confirmed",
		zap.String("intent_id", intent.ID),
		zap.String("status", string(intent.Status)))

	return intent.ID, nil
}

// intentIDFromClientSecret extracts the intent id from a client secret of
// the form "pi_xxx_secret_yyy"
func intentIDFromClientSecret(clientSecret string) (string, error) {
	idx := strings.Index(clientSecret, "_secret_")
	if idx <= 0 {
		return "", fmt.Errorf("stripe: malformed client secret")
	}
	return clientSecret[:idx], nil
}
