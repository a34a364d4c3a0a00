package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/maison/storefront/internal/application/checkout"
	"github.com/maison/storefront/internal/infrastructure/payment"
	"github.com/maison/storefront/internal/infrastructure/postal"
)

func newCheckoutCommand(a *app) *cobra.Command {
	var form checkout.ShippingForm
	var paymentMethodID string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSignIn(); err != nil {
				return err
			}
			if len(a.sessions.Cart()) == 0 {
				return fmt.Errorf("your cart is empty")
			}

			ctx := cmd.Context()

			lookup, err := postal.NewAdapter(&postal.Config{
				BaseURL: a.config.Postal.BaseURL,
				Timeout: a.config.Postal.Timeout,
				Logger:  a.logger.Named("postal"),
			})
			if err != nil {
				return err
			}

			payments, err := payment.NewStripeAdapter(&payment.StripeConfig{
				APIKey:   a.config.Payment.StripeKey,
				Currency: a.config.Payment.Currency,
			}, a.logger.Named("payment"))
			if err != nil {
				return err
			}

			flow := checkout.NewFlow(lookup, payments, a.api, a.sessions,
				a.logger.Named("checkout"),
				checkout.WithDebounce(a.config.Postal.Debounce))
			defer flow.Close()

			flow.SetName(form.Name)
			flow.SetAddress(form.Address)
			flow.SetPhone(form.Phone)
			flow.SetPostalCode(ctx, form.PostalCode)

			if err := waitForLookup(flow, a.config.Postal.Debounce+a.config.Postal.Timeout); err != nil {
				return err
			}

			// Manual overrides after the auto-fill
			if form.State != "" {
				flow.SetState(form.State)
			}
			if form.District != "" {
				flow.SetDistrict(form.District)
			}

			if flow.State() != checkout.StatePaymentReady {
				return describeFormErrors(flow)
			}

			confirmed := flow.Form()
			cmd.Printf("Shipping to %s, %s, %s %s\n",
				confirmed.Address, confirmed.District, confirmed.State, confirmed.PostalCode)

			// The flow's own errors carry the payment context (including the
			// captured-but-unordered case), so they surface unwrapped
			created, err := flow.SubmitPayment(ctx, paymentMethodID)
			if err != nil {
				return err
			}

			cmd.Printf("Order %s placed, total %s\n", created.ID, created.Total.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "recipient name")
	cmd.Flags().StringVar(&form.Address, "address", "", "street address")
	cmd.Flags().StringVar(&form.PostalCode, "postal-code", "", "6-digit postal code")
	cmd.Flags().StringVar(&form.State, "state", "", "state (auto-filled from the postal code)")
	cmd.Flags().StringVar(&form.District, "district", "", "district (auto-filled from the postal code)")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "10-digit phone number")
	cmd.Flags().StringVar(&paymentMethodID, "payment-method", "", "payment method id")
	return cmd
}

// waitForLookup blocks until the debounced postal lookup settles
func waitForLookup(flow *checkout.Flow, limit time.Duration) error {
	deadline := time.Now().Add(limit)
	for flow.State() == checkout.StatePinLookupPending {
		if time.Now().After(deadline) {
			return fmt.Errorf("postal lookup timed out")
		}
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}

// describeFormErrors collects the per-field messages into one error
func describeFormErrors(flow *checkout.Flow) error {
	fields := []string{"Name", "Address", "PostalCode", "State", "District", "Phone"}
	for _, field := range fields {
		if msg, ok := flow.FieldError(field); ok {
			return fmt.Errorf("%s: %s", field, msg)
		}
	}
	return fmt.Errorf("shipping details are incomplete")
}
