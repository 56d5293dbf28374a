package email

import (
	"fmt"

	"github.com/marvilon/leadgate/ports"
)

// Config selects and configures the email provider.
type Config struct {
	Provider string // "resend", "smtp", "mock", "none"
	Resend   ResendConfig
	SMTP     SMTPConfig
}

// NewSender creates an email sender based on the configured provider.
func NewSender(cfg Config) (ports.EmailSender, error) {
	switch cfg.Provider {
	case "resend":
		return NewResendSender(cfg.Resend)

	case "smtp":
		return NewSMTPSender(cfg.SMTP)

	case "mock":
		return NewMockSender(), nil

	case "none", "":
		return NewNoopSender(), nil

	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
}
