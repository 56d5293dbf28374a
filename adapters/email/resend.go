// Package email provides email sending adapters.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/marvilon/leadgate/ports"
)

// DefaultResendBaseURL is the production Resend API endpoint.
const DefaultResendBaseURL = "https://api.resend.com"

// ResendConfig holds Resend API configuration.
type ResendConfig struct {
	APIKey   string
	From     string // sender, e.g. `MARVILON Forms <onboarding@resend.dev>`
	BaseURL  string // override for tests; defaults to DefaultResendBaseURL
	Timeout  time.Duration
	MaxRPS   float64 // outbound throttle; Resend caps API calls per second
	MaxBurst int
}

// ResendSender implements ports.EmailSender against the Resend HTTP API.
// Outbound calls are throttled client-side so a burst of form submissions
// cannot trip the provider's request-per-second cap.
type ResendSender struct {
	config  ResendConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewResendSender creates a Resend API email sender.
func NewResendSender(cfg ResendConfig) (*ResendSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("resend sender address is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultResendBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRPS <= 0 {
		cfg.MaxRPS = 2
	}
	if cfg.MaxBurst <= 0 {
		cfg.MaxBurst = 2
	}

	return &ResendSender{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.MaxRPS), cfg.MaxBurst),
	}, nil
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// Send dispatches one email through the Resend API.
func (s *ResendSender) Send(ctx context.Context, msg ports.EmailMessage) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("resend throttle: %w", err)
	}

	payload := resendPayload{
		From:    s.config.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.TextBody,
		HTML:    msg.HTMLBody,
		ReplyTo: msg.ReplyTo,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The response body carries the provider's reason; keep it short.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	return nil
}

// Ensure interface compliance.
var _ ports.EmailSender = (*ResendSender)(nil)
