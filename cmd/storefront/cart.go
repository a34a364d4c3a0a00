package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/maison/storefront/internal/domain/session"
	"github.com/maison/storefront/internal/infrastructure/backend"
)

func newCartCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.requireSignIn()
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			printCart(cmd, a)
			return nil
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id: %w", err)
			}
			if err := a.sessions.AddToCart(cmd.Context(), id, quantity); err != nil {
				return fmt.Errorf("%s", backend.UserMessage(err))
			}
			printCart(cmd, a)
			return nil
		},
	}
	add.Flags().IntVar(&quantity, "quantity", 1, "units to add")

	qty := &cobra.Command{
		Use:   "qty <line-id> <quantity>",
		Short: "Set a cart line's quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid line id: %w", err)
			}
			var n int
			if _, err := fmt.Sscanf(args[1], "%d", &n); err != nil {
				return fmt.Errorf("invalid quantity: %w", err)
			}
			if err := a.sessions.SetQuantity(cmd.Context(), id, n); err != nil {
				return fmt.Errorf("%s", backend.UserMessage(err))
			}
			printCart(cmd, a)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <line-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid line id: %w", err)
			}
			if err := a.sessions.RemoveFromCart(cmd.Context(), id); err != nil {
				return fmt.Errorf("%s", backend.UserMessage(err))
			}
			printCart(cmd, a)
			return nil
		},
	}

	cmd.AddCommand(show, add, qty, rm)
	return cmd
}

func printCart(cmd *cobra.Command, a *app) {
	lines := a.sessions.Cart()
	if len(lines) == 0 {
		cmd.Println("Your cart is empty")
		return
	}
	for _, line := range lines {
		printCartLine(cmd, line)
	}
	cmd.Printf("Total: %s (%d items)\n", a.sessions.CartTotal().StringFixed(2), a.sessions.CartCount())
}

func printCartLine(cmd *cobra.Command, line session.CartLine) {
	cmd.Printf("%s  %-30s x%d  %10s\n",
		line.ID, line.Name, line.Quantity, line.Subtotal().StringFixed(2))
}
