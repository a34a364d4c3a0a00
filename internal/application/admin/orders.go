package admin

import (
	"context"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maison/storefront/internal/domain/order"
	"github.com/maison/storefront/internal/domain/shared"
	"github.com/maison/storefront/internal/infrastructure/export"
)

// OrderAPI is the slice of the backend client the orders screen uses
type OrderAPI interface {
	AdminOrders(ctx context.Context) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status order.Status) (*order.Order, error)
	NotifyOrder(ctx context.Context, id uuid.UUID) error
}

// OrderSort selects the comparator for the orders table
type OrderSort string

const (
	OrderSortNewest   OrderSort = "newest"
	OrderSortOldest   OrderSort = "oldest"
	OrderSortTotal    OrderSort = "total"
	OrderSortCustomer OrderSort = "customer"
)

// OrderFilters is the orders screen's local UI state
type OrderFilters struct {
	Search string
	Status order.Status // empty means all statuses
	Dates  DateRange
	Sort   OrderSort
}

// Orders is the admin order list screen: one full-collection fetch, then
// an entirely client-side filter, sort, and paginate pipeline.
type Orders struct {
	api      OrderAPI
	guard    Guard
	logger   *zap.Logger
	pageSize int

	all     []order.Order
	Filters OrderFilters
}

// NewOrders creates the orders screen
func NewOrders(api OrderAPI, guard Guard, pageSize int, logger *zap.Logger) *Orders {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orders{
		api:      api,
		guard:    guard,
		logger:   logger,
		pageSize: pageSize,
		Filters:  OrderFilters{Sort: OrderSortNewest},
	}
}

// Refresh fetches the whole collection
func (s *Orders) Refresh(ctx context.Context) error {
	if !s.guard.IsAdmin() {
		return shared.ErrForbidden
	}
	orders, err := s.api.AdminOrders(ctx)
	if err != nil {
		return err
	}
	s.all = orders
	return nil
}

// Page runs the pipeline and returns the requested page
func (s *Orders) Page(pageNumber int) Page[order.Order] {
	return paginate(s.filtered(), pageNumber, s.pageSize)
}

// filtered runs the filter and sort stages over the whole collection
func (s *Orders) filtered() []order.Order {
	filtered := make([]order.Order, 0, len(s.all))
	for _, o := range s.all {
		if s.Filters.Status != "" && o.Status != s.Filters.Status {
			continue
		}
		if !s.Filters.Dates.Contains(o.CreatedAt) {
			continue
		}
		if !foldContains(s.Filters.Search, o.ID.String(), o.UserEmail, o.Shipping.Name, o.Shipping.Phone) {
			continue
		}
		filtered = append(filtered, o)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch s.Filters.Sort {
		case OrderSortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case OrderSortTotal:
			return a.Total.GreaterThan(b.Total)
		case OrderSortCustomer:
			return a.UserEmail < b.UserEmail
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	return filtered
}

// UpdateStatus moves an order to a new status and patches the single
// affected record in local state. Orders already in a terminal status
// reject the action client-side before any request is sent.
func (s *Orders) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	if !s.guard.IsAdmin() {
		return shared.ErrForbidden
	}

	current, ok := s.find(id)
	if !ok {
		return shared.ErrNotFound
	}
	if err := current.CanTransition(status); err != nil {
		return err
	}

	updated, err := s.api.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return err
	}

	for i := range s.all {
		if s.all[i].ID == id {
			s.all[i] = *updated
			break
		}
	}

	s.logger.Info("order status updated",
		zap.String("order_id", id.String()),
		zap.String("status", string(status)))
	return nil
}

// Notify sends the customer a status notification. Terminal orders are
// gated the same way as status updates.
func (s *Orders) Notify(ctx context.Context, id uuid.UUID) error {
	if !s.guard.IsAdmin() {
		return shared.ErrForbidden
	}
	current, ok := s.find(id)
	if !ok {
		return shared.ErrNotFound
	}
	if current.Status.Terminal() {
		return shared.ErrTerminalStatus
	}
	return s.api.NotifyOrder(ctx, id)
}

func (s *Orders) find(id uuid.UUID) (*order.Order, bool) {
	for i := range s.all {
		if s.all[i].ID == id {
			return &s.all[i], true
		}
	}
	return nil, false
}

// ExportTable builds export rows from every filtered row, so the file
// matches what the screen shows regardless of pagination
func (s *Orders) ExportTable() *export.Table {
	filtered := s.filtered()

	rows := make([][]string, 0, len(filtered))
	for _, o := range filtered {
		rows = append(rows, []string{
			o.ID.String(),
			o.UserEmail,
			string(o.Status),
			strconv.Itoa(len(o.Items)),
			o.Total.StringFixed(2),
			o.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return &export.Table{
		Name:    "Orders",
		Headers: []string{"ID", "Customer", "Status", "Items", "Total", "Created"},
		Rows:    rows,
	}
}
