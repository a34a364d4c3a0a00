package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/maison/storefront/internal/infrastructure/backend"
)

func newCatalogCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the product catalog",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every product",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.api.Products(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", backend.UserMessage(err))
			}
			if len(products) == 0 {
				cmd.Println("The catalog is empty")
				return nil
			}
			for _, p := range products {
				stock := "in stock"
				if !p.InStock() {
					stock = "out of stock"
				}
				cmd.Printf("%s  %-30s %-16s %10s  %s\n",
					p.ID, p.Name, p.Brand, p.Price.StringFixed(2), stock)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id: %w", err)
			}
			p, err := a.api.Product(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("%s", backend.UserMessage(err))
			}
			cmd.Printf("%s\n%s — %s\n", p.Name, p.Brand, p.Category)
			if p.Description != "" {
				cmd.Println(p.Description)
			}
			cmd.Printf("Price: %s\nStock: %d\n", p.Price.StringFixed(2), p.Stock)
			if a.sessions.SignedIn() && a.sessions.InWishlist(p.ID) {
				cmd.Println("In your wishlist")
			}
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}
