package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/maison/storefront/internal/infrastructure/backend"
)

func newWishlistCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the wishlist",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.requireSignIn()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			printWishlist(cmd, a)
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <product-id>",
		Short: "Add or remove a product from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id: %w", err)
			}
			if err := a.sessions.ToggleWishlist(cmd.Context(), id); err != nil {
				return fmt.Errorf("%s", backend.UserMessage(err))
			}
			printWishlist(cmd, a)
			return nil
		},
	}

	cmd.AddCommand(toggle)
	return cmd
}

func printWishlist(cmd *cobra.Command, a *app) {
	lines := a.sessions.Wishlist()
	if len(lines) == 0 {
		cmd.Println("Your wishlist is empty")
		return
	}
	for _, line := range lines {
		cmd.Printf("%s  %-30s %-16s %10s\n",
			line.ProductID, line.Name, line.Brand, line.Price.StringFixed(2))
	}
}
