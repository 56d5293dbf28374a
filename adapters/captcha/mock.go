package captcha

import (
	"context"

	"github.com/marvilon/leadgate/ports"
)

// MockVerifier returns a fixed verification result (for testing and for
// local development without a reCAPTCHA account).
type MockVerifier struct {
	Result ports.CaptchaResult
	Err    error

	// Tokens records every token handed to Verify.
	Tokens []string
}

// NewMockVerifier creates a verifier that scores every token as the given
// result.
func NewMockVerifier(success bool, score float64) *MockVerifier {
	return &MockVerifier{Result: ports.CaptchaResult{Success: success, Score: score}}
}

// Verify records the token and returns the configured result.
func (m *MockVerifier) Verify(ctx context.Context, token, remoteIP string) (ports.CaptchaResult, error) {
	m.Tokens = append(m.Tokens, token)
	if m.Err != nil {
		return ports.CaptchaResult{}, m.Err
	}
	return m.Result, nil
}

// Ensure interface compliance.
var _ ports.CaptchaVerifier = (*MockVerifier)(nil)
