// Package captcha provides bot-verification adapters.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marvilon/leadgate/ports"
)

// DefaultVerifyURL is Google's reCAPTCHA v3 verification endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// RecaptchaConfig holds reCAPTCHA verification configuration.
type RecaptchaConfig struct {
	SecretKey string
	VerifyURL string        // override for tests; defaults to DefaultVerifyURL
	Timeout   time.Duration // network timeout; verification failure on expiry
}

// RecaptchaVerifier implements ports.CaptchaVerifier against the reCAPTCHA
// v3 siteverify API. The client always carries a timeout so a stalled
// verification fails fast instead of holding the submission open.
type RecaptchaVerifier struct {
	config RecaptchaConfig
	client *http.Client
}

// NewRecaptchaVerifier creates a reCAPTCHA verifier.
func NewRecaptchaVerifier(cfg RecaptchaConfig) (*RecaptchaVerifier, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("recaptcha secret key is required")
	}
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = DefaultVerifyURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &RecaptchaVerifier{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify exchanges a client token for the verification service's judgement.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) (ports.CaptchaResult, error) {
	form := url.Values{
		"secret":   {v.config.SecretKey},
		"response": {token},
	}
	if remoteIP != "" && remoteIP != "unknown" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.config.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return ports.CaptchaResult{}, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return ports.CaptchaResult{}, fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.CaptchaResult{}, fmt.Errorf("siteverify returned %d", resp.StatusCode)
	}

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.CaptchaResult{}, fmt.Errorf("decode siteverify response: %w", err)
	}

	return ports.CaptchaResult{
		Success: body.Success,
		Score:   body.Score,
		Action:  body.Action,
	}, nil
}

// Ensure interface compliance.
var _ ports.CaptchaVerifier = (*RecaptchaVerifier)(nil)
