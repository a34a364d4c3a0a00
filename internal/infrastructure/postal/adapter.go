package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/maison/storefront/internal/domain/shared"
)

const (
	// maxResponseSize limits the response body size to prevent memory exhaustion
	maxResponseSize = 1 * 1024 * 1024 // 1MB

	// PinCodeLength is the number of digits in a valid postal code
	PinCodeLength = 6
)

// Config contains configuration for the postal lookup adapter
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Validate checks the configuration and applies defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}

// Region is the resolved location for a postal code. Checkout auto-fills
// the state and district fields from it; both stay user-editable afterward.
type Region struct {
	State    string
	District string
}

// Adapter resolves 6-digit postal codes against the public PIN code API
type Adapter struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAdapter creates a postal lookup adapter
func NewAdapter(config *Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// pinResponse mirrors the PIN code API's response envelope
type pinResponse struct {
	Status     string `json:"Status"`
	Message    string `json:"Message,omitempty"`
	PostOffice []struct {
		Name     string `json:"Name"`
		District string `json:"District"`
		State    string `json:"State"`
	} `json:"PostOffice"`
}

// Lookup resolves a postal code to its state and district. An unknown or
// malformed code yields ErrPostalCodeLookup so checkout can surface a
// field-level error and block progression.
func (a *Adapter) Lookup(ctx context.Context, pinCode string) (*Region, error) {
	if !ValidPinCode(pinCode) {
		return nil, shared.ErrPostalCodeLookup
	}

	url := fmt.Sprintf("%s/pincode/%s", a.config.BaseURL, pinCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("postal: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPostalCodeLookup, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("postal: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", shared.ErrPostalCodeLookup, resp.StatusCode)
	}

	// The API wraps the result in a single-element array
	var envelope []pinResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("postal: failed to parse response: %w", err)
	}
	if len(envelope) == 0 || envelope[0].Status != "Success" || len(envelope[0].PostOffice) == 0 {
		a.logger.Debug("postal code not found", zap.String("pin", pinCode))
		return nil, shared.ErrPostalCodeLookup
	}

	office := envelope[0].PostOffice[0]
	return &Region{
		State:    office.State,
		District: office.District,
	}, nil
}

// ValidPinCode reports whether the code is exactly six digits
func ValidPinCode(code string) bool {
	if len(code) != PinCodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
