package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const maxPhoneResponseSize = 1 * 1024 * 1024 // 1MB

// Phone OTP errors
var (
	ErrPhoneConfigIncomplete = errors.New("identity: phone config incomplete")
	ErrChallengeExpired      = errors.New("identity: captcha challenge expired, please retry")
	ErrInvalidCode           = errors.New("identity: invalid SMS code")
)

// PhoneConfig contains configuration for the phone OTP provider
type PhoneConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Validate checks the configuration and applies defaults
func (c *PhoneConfig) Validate() error {
	if c.BaseURL == "" || c.APIKey == "" {
		return ErrPhoneConfigIncomplete
	}
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
	return nil
}

// PhoneAdapter runs the SMS OTP flow: an invisible-CAPTCHA challenge token
// starts a verification, the SMS code completes it, and the provider's ID
// token is forwarded to the backend.
type PhoneAdapter struct {
	config     *PhoneConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewPhoneAdapter creates a phone OTP adapter
func NewPhoneAdapter(config *PhoneConfig) (*PhoneAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PhoneAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// Challenge is a single verification attempt. It is constructed when the
// phone screen starts a verification and disposed when the screen exits or
// the provider rejects it; a rejected challenge must be re-created before
// the user can retry.
type Challenge struct {
	sessionInfo string
	spent       bool
}

// Spent reports whether the challenge can no longer be used
func (ch *Challenge) Spent() bool {
	return ch == nil || ch.spent
}

// Reset marks the challenge unusable. Called on provider failure so the
// screen rebuilds the CAPTCHA before the next attempt.
func (ch *Challenge) Reset() {
	if ch != nil {
		ch.spent = true
	}
}

type sendCodeResponse struct {
	SessionInfo string `json:"sessionInfo"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type verifyCodeResponse struct {
	IDToken string `json:"idToken"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// StartVerification sends the SMS and returns the challenge tracking it.
// captchaToken comes from the invisible CAPTCHA the screen solved.
func (a *PhoneAdapter) StartVerification(ctx context.Context, phoneNumber, captchaToken string) (*Challenge, error) {
	body := map[string]string{
		"phoneNumber":    phoneNumber,
		"recaptchaToken": captchaToken,
	}

	var resp sendCodeResponse
	if err := a.post(ctx, "/v1/accounts:sendVerificationCode", body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		a.logger.Warn("phone verification rejected",
			zap.String("phone", phoneNumber),
			zap.String("message", resp.Error.Message))
		return nil, fmt.Errorf("%w: %s", ErrChallengeExpired, resp.Error.Message)
	}

	return &Challenge{sessionInfo: resp.SessionInfo}, nil
}

// ConfirmCode completes the verification with the SMS code and returns the
// provider ID token. A provider rejection spends the challenge so the
// caller rebuilds the CAPTCHA before retrying.
func (a *PhoneAdapter) ConfirmCode(ctx context.Context, ch *Challenge, code string) (string, error) {
	if ch.Spent() {
		return "", ErrChallengeExpired
	}

	body := map[string]string{
		"sessionInfo": ch.sessionInfo,
		"code":        code,
	}

	var resp verifyCodeResponse
	if err := a.post(ctx, "/v1/accounts:verifyPhoneNumber", body, &resp); err != nil {
		ch.Reset()
		return "", err
	}
	if resp.Error != nil {
		ch.Reset()
		return "", fmt.Errorf("%w: %s", ErrInvalidCode, resp.Error.Message)
	}

	return resp.IDToken, nil
}

// post performs a request against the OTP provider
func (a *PhoneAdapter) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("identity: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s%s?key=%s", a.config.BaseURL, path, a.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("identity: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity: phone provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPhoneResponseSize))
	if err != nil {
		return fmt.Errorf("identity: failed to read response: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("identity: failed to parse response: %w", err)
	}
	return nil
}
