package admin

import (
	"context"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maison/storefront/internal/domain/catalog"
	"github.com/maison/storefront/internal/domain/shared"
	"github.com/maison/storefront/internal/infrastructure/export"
)

// ProductAPI is the slice of the backend client the products screen uses
type ProductAPI interface {
	Products(ctx context.Context) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, record catalog.Record) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, record catalog.Record) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// ProductSort selects the comparator for the products table
type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortName      ProductSort = "name"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortStock     ProductSort = "stock"
)

// ProductFilters is the products screen's local UI state
type ProductFilters struct {
	Search     string
	Category   string // empty means all categories
	Brand      string // empty means all brands
	OutOfStock bool   // restrict to zero-stock products
	Sort       ProductSort
}

// Products is the admin catalog screen. Create and edit forward full-record
// payloads; delete re-fetches the whole collection because the backend may
// cascade.
type Products struct {
	api      ProductAPI
	guard    Guard
	logger   *zap.Logger
	pageSize int

	all     []catalog.Product
	Filters ProductFilters
}

// NewProducts creates the products screen
func NewProducts(api ProductAPI, guard Guard, pageSize int, logger *zap.Logger) *Products {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Products{
		api:      api,
		guard:    guard,
		logger:   logger,
		pageSize: pageSize,
		Filters:  ProductFilters{Sort: ProductSortNewest},
	}
}

// Refresh fetches the whole catalog
func (s *Products) Refresh(ctx context.Context) error {
	if !s.guard.IsAdmin() {
		return shared.ErrForbidden
	}
	products, err := s.api.Products(ctx)
	if err != nil {
		return err
	}
	s.all = products
	return nil
}

// Categories returns the distinct categories present in the catalog, sorted
func (s *Products) Categories() []string {
	return distinct(s.all, func(p catalog.Product) string { return p.Category })
}

// Brands returns the distinct brands present in the catalog, sorted
func (s *Products) Brands() []string {
	return distinct(s.all, func(p catalog.Product) string { return p.Brand })
}

func distinct(products []catalog.Product, key func(catalog.Product) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		k := key(p)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Page runs the pipeline and returns the requested page
func (s *Products) Page(pageNumber int) Page[catalog.Product] {
	return paginate(s.filtered(), pageNumber, s.pageSize)
}

// filtered runs the filter and sort stages over the whole collection
func (s *Products) filtered() []catalog.Product {
	filtered := make([]catalog.Product, 0, len(s.all))
	for _, p := range s.all {
		if s.Filters.Category != "" && p.Category != s.Filters.Category {
			continue
		}
		if s.Filters.Brand != "" && p.Brand != s.Filters.Brand {
			continue
		}
		if s.Filters.OutOfStock && p.InStock() {
			continue
		}
		if !foldContains(s.Filters.Search, p.Name, p.Brand, p.Category, p.Description) {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch s.Filters.Sort {
		case ProductSortName:
			return a.Name < b.Name
		case ProductSortPriceAsc:
			return a.Price.LessThan(b.Price)
		case ProductSortPriceDesc:
			return a.Price.GreaterThan(b.Price)
		case ProductSortStock:
			return a.Stock < b.Stock
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	return filtered
}

// Create forwards a full-record payload and appends the created product
func (s *Products) Create(ctx context.Context, record catalog.Record) (*catalog.Product, error) {
	if !s.guard.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	created, err := s.api.CreateProduct(ctx, record)
	if err != nil {
		return nil, err
	}
	s.all = append(s.all, *created)
	s.logger.Info("product created", zap.String("product_id", created.ID.String()))
	return created, nil
}

// Update forwards a full-record payload and patches the single affected
// record in local state
func (s *Products) Update(ctx context.Context, id uuid.UUID, record catalog.Record) (*catalog.Product, error) {
	if !s.guard.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	updated, err := s.api.UpdateProduct(ctx, id, record)
	if err != nil {
		return nil, err
	}
	for i := range s.all {
		if s.all[i].ID == id {
			s.all[i] = *updated
			break
		}
	}
	s.logger.Info("product updated", zap.String("product_id", id.String()))
	return updated, nil
}

// Delete removes a product and re-fetches the collection
func (s *Products) Delete(ctx context.Context, id uuid.UUID) error {
	if !s.guard.IsAdmin() {
		return shared.ErrForbidden
	}
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return s.Refresh(ctx)
}

// ExportTable builds export rows from every filtered row
func (s *Products) ExportTable() *export.Table {
	filtered := s.filtered()

	rows := make([][]string, 0, len(filtered))
	for _, p := range filtered {
		rows = append(rows, []string{
			p.ID.String(),
			p.Name,
			p.Brand,
			p.Category,
			p.Price.StringFixed(2),
			strconv.Itoa(p.Stock),
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return &export.Table{
		Name:    "Products",
		Headers: []string{"ID", "Name", "Brand", "Category", "Price", "Stock", "Created"},
		Rows:    rows,
	}
}
