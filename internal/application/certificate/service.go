package certificate

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maison/storefront/internal/domain/order"
	"github.com/maison/storefront/internal/domain/shared"
	"github.com/maison/storefront/internal/infrastructure/printing"
)

// OrderAPI is the slice of the backend client the certificate service uses
type OrderAPI interface {
	Order(ctx context.Context, id uuid.UUID) (*order.Order, error)
}

// Config holds the certificate output settings
type Config struct {
	OutputDir     string
	RenderTimeout time.Duration
	Logger        *zap.Logger
}

// Validate applies defaults
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		c.OutputDir = "certificates"
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return nil
}

// Service assembles certificates of ownership: order and item details laid
// into an HTML template, rendered to a fixed-size PDF page, written to disk.
type Service struct {
	api      OrderAPI
	renderer printing.PDFRenderer
	config   Config
	tmpl     *template.Template
}

// NewService creates a certificate service
func NewService(api OrderAPI, renderer printing.PDFRenderer, config Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	tmpl, err := template.New("certificate").Parse(certificateTemplate)
	if err != nil {
		return nil, fmt.Errorf("certificate: failed to parse template: %w", err)
	}
	return &Service{
		api:      api,
		renderer: renderer,
		config:   config,
		tmpl:     tmpl,
	}, nil
}

// templateData is what the certificate template is executed against
type templateData struct {
	OrderID   string
	OwnerName string
	IssuedAt  string
	OrderedAt string
	Items     []templateItem
	Total     string
}

type templateItem struct {
	Name     string
	Brand    string
	Quantity int
	Price    string
}

// Generate renders the certificate for one order and returns the path of the
// written PDF. Orders belong to the signed-in user; the backend rejects
// lookups of anyone else's orders.
func (s *Service) Generate(ctx context.Context, orderID uuid.UUID) (string, error) {
	ord, err := s.api.Order(ctx, orderID)
	if err != nil {
		return "", err
	}
	if len(ord.Items) == 0 {
		return "", shared.ErrInvalidState
	}

	data := templateData{
		OrderID:   ord.ID.String(),
		OwnerName: ord.Shipping.Name,
		IssuedAt:  time.Now().Format("2 January 2006"),
		OrderedAt: ord.CreatedAt.Format("2 January 2006"),
		Total:     ord.Total.StringFixed(2),
	}
	for _, item := range ord.Items {
		data.Items = append(data.Items, templateItem{
			Name:     item.Name,
			Brand:    item.Brand,
			Quantity: item.Quantity,
			Price:    item.UnitPrice.StringFixed(2),
		})
	}

	var html bytes.Buffer
	if err := s.tmpl.Execute(&html, data); err != nil {
		return "", fmt.Errorf("certificate: failed to execute template: %w", err)
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:    html.String(),
		Title:   fmt.Sprintf("Certificate of Ownership - %s", ord.ID),
		Timeout: s.config.RenderTimeout,
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.config.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("certificate: failed to create output directory: %w", err)
	}
	path := filepath.Join(s.config.OutputDir, fmt.Sprintf("certificate-%s.pdf", ord.ID))
	if err := os.WriteFile(path, result.PDFData, 0o644); err != nil {
		return "", fmt.Errorf("certificate: failed to write PDF: %w", err)
	}

	s.config.Logger.Info("certificate generated",
		zap.String("order_id", ord.ID.String()),
		zap.String("path", path),
		zap.Duration("render_duration", result.RenderDuration))
	return path, nil
}
