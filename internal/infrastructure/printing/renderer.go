package printing

import (
	"context"
	"errors"
	"time"
)

// A4 page dimensions in millimeters. Certificates always render to this
// fixed page size; content is scaled to fit.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
)

// Render errors
var (
	ErrEmptyHTML     = errors.New("printing: HTML content is empty")
	ErrRenderTimeout = errors.New("printing: rendering timed out")
	ErrRenderFailed  = errors.New("printing: rendering failed")
)

// RenderRequest describes one document to render
type RenderRequest struct {
	HTML    string
	Title   string
	Scale   float64 // 0 means fit to page
	Timeout time.Duration
}

// RenderResult holds the rendered document
type RenderResult struct {
	PDFData        []byte
	RenderDuration time.Duration
}

// PDFRenderer converts HTML to a fixed-size PDF page
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}
