package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/maison/storefront/internal/application/admin"
	"github.com/maison/storefront/internal/domain/order"
	"github.com/maison/storefront/internal/domain/session"
	"github.com/maison/storefront/internal/infrastructure/backend"
	"github.com/maison/storefront/internal/infrastructure/export"
)

func newAdminCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration screens",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.requireAdmin()
		},
	}

	cmd.AddCommand(
		newAdminOrdersCommand(a),
		newAdminProductsCommand(a),
		newAdminUsersCommand(a),
	)
	return cmd
}

// exportFlags is the shared --export/--out pair on every admin list command
type exportFlags struct {
	format string
	out    string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "export", "", "write the filtered rows to a file (csv or xlsx)")
	cmd.Flags().StringVar(&f.out, "out", "", "export file path (defaults to <screen>.<format>)")
}

func (f *exportFlags) write(cmd *cobra.Command, table *export.Table) error {
	if f.format == "" {
		return nil
	}
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}
	path := f.out
	if path == "" {
		path = fmt.Sprintf("%s.%s", table.Name, format)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := export.Write(file, format, table); err != nil {
		return err
	}
	cmd.Printf("Exported %d rows to %s\n", len(table.Rows), path)
	return nil
}

// parseDateRange parses --from/--to flag values. The --to day itself is
// included; the range stays half-open internally.
func parseDateRange(from, to string) (admin.DateRange, error) {
	var r admin.DateRange
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return r, fmt.Errorf("invalid --from date (want YYYY-MM-DD): %w", err)
		}
		r.From = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return r, fmt.Errorf("invalid --to date (want YYYY-MM-DD): %w", err)
		}
		r.To = t.AddDate(0, 0, 1)
	}
	return r, nil
}

func newAdminOrdersCommand(a *app) *cobra.Command {
	var (
		search   string
		status   string
		fromDate string
		toDate   string
		sortKey  string
		page     int
		exp      exportFlags
		setTo    string
		notifyID string
	)

	cmd := &cobra.Command{
		Use:   "orders [order-id]",
		Short: "List and manage orders",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := admin.NewOrders(a.api, a.sessions, a.config.Admin.PageSize, a.logger.Named("admin"))
			if err := screen.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("%s", backend.UserMessage(err))
			}

			if len(args) == 1 && setTo != "" {
				id, err := parseUUID(args[0], "order")
				if err != nil {
					return err
				}
				if err := screen.UpdateStatus(cmd.Context(), id, order.Status(setTo)); err != nil {
					return err
				}
				cmd.Printf("Order %s is now %s\n", id, setTo)
				return nil
			}
			if notifyID != "" {
				id, err := parseUUID(notifyID, "order")
				if err != nil {
					return err
				}
				if err := screen.Notify(cmd.Context(), id); err != nil {
					return err
				}
				cmd.Println("Notification sent")
				return nil
			}

			dates, err := parseDateRange(fromDate, toDate)
			if err != nil {
				return err
			}

			screen.Filters.Search = search
			screen.Filters.Status = order.Status(status)
			screen.Filters.Dates = dates
			screen.Filters.Sort = admin.OrderSort(sortKey)

			p := screen.Page(page)
			if p.Empty() {
				cmd.Println("No orders match the current filters")
				return nil
			}
			for _, o := range p.Items {
				cmd.Printf("%s  %-12s %-28s %10s  %s\n",
					o.ID, o.Status, o.UserEmail, o.Total.StringFixed(2),
					o.CreatedAt.Format("2006-01-02"))
			}
			cmd.Printf("Page %d of %d (%d orders)\n", p.PageNumber, p.PageCount, p.Total)

			return exp.write(cmd, screen.ExportTable())
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "search id, customer, recipient or phone")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&fromDate, "from", "", "only orders placed on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "only orders placed on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sortKey, "sort", string(admin.OrderSortNewest), "sort: newest, oldest, total, customer")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&setTo, "set-status", "", "move the named order to this status")
	cmd.Flags().StringVar(&notifyID, "notify", "", "send a status notification for this order id")
	exp.register(cmd)
	return cmd
}

func newAdminProductsCommand(a *app) *cobra.Command {
	var (
		search   string
		category string
		brand    string
		sortKey  string
		page     int
		exp      exportFlags
		deleteID string
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List and manage the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := admin.NewProducts(a.api, a.sessions, a.config.Admin.PageSize, a.logger.Named("admin"))
			if err := screen.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("%s", backend.UserMessage(err))
			}

			if deleteID != "" {
				id, err := parseUUID(deleteID, "product")
				if err != nil {
					return err
				}
				if err := screen.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("%s", backend.UserMessage(err))
				}
				cmd.Println("Product deleted")
				return nil
			}

			screen.Filters.Search = search
			screen.Filters.Category = category
			screen.Filters.Brand = brand
			screen.Filters.Sort = admin.ProductSort(sortKey)

			p := screen.Page(page)
			if p.Empty() {
				cmd.Println("No products match the current filters")
				return nil
			}
			for _, prod := range p.Items {
				cmd.Printf("%s  %-30s %-16s %10s  stock %d\n",
					prod.ID, prod.Name, prod.Brand, prod.Price.StringFixed(2), prod.Stock)
			}
			cmd.Printf("Page %d of %d (%d products)\n", p.PageNumber, p.PageCount, p.Total)

			return exp.write(cmd, screen.ExportTable())
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "search name, brand, category or description")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&brand, "brand", "", "filter by brand")
	cmd.Flags().StringVar(&sortKey, "sort", string(admin.ProductSortNewest), "sort: newest, name, price_asc, price_desc, stock")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&deleteID, "delete", "", "delete this product id")
	exp.register(cmd)
	return cmd
}

func newAdminUsersCommand(a *app) *cobra.Command {
	var (
		search      string
		role        string
		blockedOnly bool
		activeOnly  bool
		fromDate    string
		toDate      string
		sortKey     string
		page        int
		exp         exportFlags
		blockID     string
		unblock     string
		roleID      string
		newRole     string
	)

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and manage users",
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := admin.NewUsers(a.api, a.sessions, a.config.Admin.PageSize, a.logger.Named("admin"))
			if err := screen.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("%s", backend.UserMessage(err))
			}

			switch {
			case blockID != "":
				id, err := parseUUID(blockID, "user")
				if err != nil {
					return err
				}
				if err := screen.SetBlocked(cmd.Context(), id, true); err != nil {
					return fmt.Errorf("%s", backend.UserMessage(err))
				}
				cmd.Println("User blocked")
				return nil
			case unblock != "":
				id, err := parseUUID(unblock, "user")
				if err != nil {
					return err
				}
				if err := screen.SetBlocked(cmd.Context(), id, false); err != nil {
					return fmt.Errorf("%s", backend.UserMessage(err))
				}
				cmd.Println("User unblocked")
				return nil
			case roleID != "":
				id, err := parseUUID(roleID, "user")
				if err != nil {
					return err
				}
				if err := screen.SetRole(cmd.Context(), id, session.Role(newRole)); err != nil {
					return fmt.Errorf("%s", backend.UserMessage(err))
				}
				cmd.Printf("User role set to %s\n", newRole)
				return nil
			}

			if blockedOnly && activeOnly {
				return fmt.Errorf("--blocked and --active are mutually exclusive")
			}
			joined, err := parseDateRange(fromDate, toDate)
			if err != nil {
				return err
			}

			screen.Filters.Search = search
			screen.Filters.Role = session.Role(role)
			screen.Filters.Joined = joined
			if blockedOnly || activeOnly {
				screen.Filters.Blocked = &blockedOnly
			}
			screen.Filters.Sort = admin.UserSort(sortKey)

			p := screen.Page(page)
			if p.Empty() {
				cmd.Println("No users match the current filters")
				return nil
			}
			for _, u := range p.Items {
				flag := ""
				if u.Blocked {
					flag = "  BLOCKED"
				}
				cmd.Printf("%s  %-24s %-30s %-9s%s\n", u.ID, u.Name, u.Email, u.Role, flag)
			}
			cmd.Printf("Page %d of %d (%d users)\n", p.PageNumber, p.PageCount, p.Total)

			return exp.write(cmd, screen.ExportTable())
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "search name, email or phone")
	cmd.Flags().StringVar(&role, "role", "", "filter by role")
	cmd.Flags().BoolVar(&blockedOnly, "blocked", false, "only blocked users")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active users")
	cmd.Flags().StringVar(&fromDate, "from", "", "only users joined on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "only users joined on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sortKey, "sort", string(admin.UserSortNewest), "sort: newest, name, email")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&blockID, "block", "", "block this user id")
	cmd.Flags().StringVar(&unblock, "unblock", "", "unblock this user id")
	cmd.Flags().StringVar(&roleID, "set-role-for", "", "change this user id's role")
	cmd.Flags().StringVar(&newRole, "role-value", "", "role to assign with --set-role-for")
	exp.register(cmd)
	return cmd
}
