package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/maison/storefront/internal/infrastructure/backend"
)

func newOrdersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show your order history",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.requireSignIn()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.api.MyOrders(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", backend.UserMessage(err))
			}
			if len(orders) == 0 {
				cmd.Println("You have no orders yet")
				return nil
			}
			for _, o := range orders {
				cmd.Printf("%s  %-12s %2d items  %10s  %s\n",
					o.ID, o.Status, len(o.Items), o.Total.StringFixed(2),
					o.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id: %w", err)
			}
			o, err := a.api.Order(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("%s", backend.UserMessage(err))
			}
			cmd.Printf("Order %s — %s\nPlaced %s\n", o.ID, o.Status, o.CreatedAt.Format("2 January 2006"))
			for _, item := range o.Items {
				cmd.Printf("  %-30s x%d  %10s\n", item.Name, item.Quantity, item.Subtotal().StringFixed(2))
			}
			cmd.Printf("Ship to: %s, %s, %s %s\n",
				o.Shipping.Address, o.Shipping.District, o.Shipping.State, o.Shipping.PostalCode)
			cmd.Printf("Total: %s\n", o.Total.StringFixed(2))
			return nil
		},
	}

	cmd.AddCommand(show)
	return cmd
}

func newCertificateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "certificate <order-id>",
		Short: "Generate a certificate of ownership PDF for an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSignIn(); err != nil {
				return err
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id: %w", err)
			}

			path, err := a.generateCertificate(cmd, id)
			if err != nil {
				return err
			}
			cmd.Printf("Certificate written to %s\n", path)
			return nil
		},
	}
}
