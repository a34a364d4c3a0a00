package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Backend     BackendConfig
	Token       TokenConfig
	Payment     PaymentConfig
	Postal      PostalConfig
	Identity    IdentityConfig
	Certificate CertificateConfig
	Admin       AdminConfig
	Log         LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// BackendConfig holds settings for the backend REST API
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TokenConfig holds durable token storage settings
type TokenConfig struct {
	Path string // file holding the access/refresh token pair
}

// PaymentConfig holds payment collaborator settings
type PaymentConfig struct {
	StripeKey string
	Currency  string
}

// PostalConfig holds postal lookup collaborator settings
type PostalConfig struct {
	BaseURL  string
	Timeout  time.Duration
	Debounce time.Duration // quiet period before a lookup fires
}

// IdentityConfig holds identity collaborator settings
type IdentityConfig struct {
	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthRedirectURL  string
	PhoneBaseURL      string
	PhoneAPIKey       string
	PhoneTimeout      time.Duration
}

// CertificateConfig holds certificate rendering settings
type CertificateConfig struct {
	OutputDir       string
	RenderTimeout   time.Duration
	ChromeRemoteURL string // optional remote Chrome instance
	NoSandbox       bool
}

// AdminConfig holds admin screen settings
type AdminConfig struct {
	PageSize int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STOREFRONT_ prefix (e.g., STOREFRONT_PAYMENT_STRIPE_KEY)
// 2. storefront.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("storefront")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/storefront")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Backend: BackendConfig{
			BaseURL: v.GetString("backend.base_url"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Token: TokenConfig{
			Path: v.GetString("token.path"),
		},
		Payment: PaymentConfig{
			StripeKey: v.GetString("payment.stripe_key"),
			Currency:  v.GetString("payment.currency"),
		},
		Postal: PostalConfig{
			BaseURL:  v.GetString("postal.base_url"),
			Timeout:  v.GetDuration("postal.timeout"),
			Debounce: v.GetDuration("postal.debounce"),
		},
		Identity: IdentityConfig{
			OAuthClientID:     v.GetString("identity.oauth_client_id"),
			OAuthClientSecret: v.GetString("identity.oauth_client_secret"),
			OAuthAuthURL:      v.GetString("identity.oauth_auth_url"),
			OAuthTokenURL:     v.GetString("identity.oauth_token_url"),
			OAuthRedirectURL:  v.GetString("identity.oauth_redirect_url"),
			PhoneBaseURL:      v.GetString("identity.phone_base_url"),
			PhoneAPIKey:       v.GetString("identity.phone_api_key"),
			PhoneTimeout:      v.GetDuration("identity.phone_timeout"),
		},
		Certificate: CertificateConfig{
			OutputDir:       v.GetString("certificate.output_dir"),
			RenderTimeout:   v.GetDuration("certificate.render_timeout"),
			ChromeRemoteURL: v.GetString("certificate.chrome_remote_url"),
			NoSandbox:       v.GetBool("certificate.no_sandbox"),
		},
		Admin: AdminConfig{
			PageSize: v.GetInt("admin.page_size"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:8080/api/v1"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 30 * time.Second
	}
	if cfg.Token.Path == "" {
		cfg.Token.Path = ".storefront-tokens.json"
	}
	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "inr"
	}
	if cfg.Postal.BaseURL == "" {
		cfg.Postal.BaseURL = "https://api.postalpincode.in"
	}
	if cfg.Postal.Timeout == 0 {
		cfg.Postal.Timeout = 10 * time.Second
	}
	if cfg.Postal.Debounce == 0 {
		cfg.Postal.Debounce = 500 * time.Millisecond
	}
	if cfg.Identity.PhoneTimeout == 0 {
		cfg.Identity.PhoneTimeout = 15 * time.Second
	}
	if cfg.Certificate.OutputDir == "" {
		cfg.Certificate.OutputDir = "."
	}
	if cfg.Certificate.RenderTimeout == 0 {
		cfg.Certificate.RenderTimeout = 30 * time.Second
	}
	if cfg.Admin.PageSize == 0 {
		cfg.Admin.PageSize = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend.base_url must be an http(s) URL, got %q", c.Backend.BaseURL)
	}
	if c.Admin.PageSize <= 0 {
		return fmt.Errorf("admin.page_size must be positive")
	}
	if c.Postal.Debounce < 0 {
		return fmt.Errorf("postal.debounce cannot be negative")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if !strings.HasPrefix(c.Backend.BaseURL, "https://") {
			return fmt.Errorf("backend.base_url must use https in production")
		}
		if c.Payment.StripeKey == "" {
			return fmt.Errorf("payment.stripe_key is required in production")
		}
	}

	return nil
}
