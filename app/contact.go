package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/marvilon/leadgate/domain/form"
	"github.com/marvilon/leadgate/pkg/clientid"
	"github.com/marvilon/leadgate/ports"
)

// ContactConfig tunes the contact submission pipeline.
type ContactConfig struct {
	RecipientEmail  string
	RateLimit       int
	RateWindow      time.Duration
	MinCaptchaScore float64
}

// ContactSubmission is one parsed contact-form body plus request metadata.
type ContactSubmission struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Company      string `json:"company"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Topic        string `json:"topic"`
	Message      string `json:"message"`
	CaptchaToken string `json:"captchaToken"`

	// Filled by the transport layer, not the client body.
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// ContactService processes contact-form submissions: rate limit, bot check,
// validation, spam heuristics, then notification dispatch. Dispatch failure
// is fatal on this path - a contact message that sent no notification is lost.
type ContactService struct {
	limiter  *RateLimitService
	verifier ports.CaptchaVerifier
	sender   ports.EmailSender
	clock    ports.Clock
	logger   zerolog.Logger
	cfg      ContactConfig
}

// NewContactService creates a contact submission service.
func NewContactService(
	limiter *RateLimitService,
	verifier ports.CaptchaVerifier,
	sender ports.EmailSender,
	clock ports.Clock,
	logger zerolog.Logger,
	cfg ContactConfig,
) *ContactService {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 3
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Hour
	}
	if cfg.MinCaptchaScore <= 0 {
		cfg.MinCaptchaScore = 0.5
	}
	return &ContactService{
		limiter:  limiter,
		verifier: verifier,
		sender:   sender,
		clock:    clock,
		logger:   logger,
		cfg:      cfg,
	}
}

// Submit runs the full contact pipeline for one submission.
func (s *ContactService) Submit(ctx context.Context, sub ContactSubmission) error {
	// Budgets are per endpoint: the same visitor spends contact and
	// spec-request quotas independently.
	key := "contact:" + clientid.Key(sub.IP, sub.UserAgent)

	allowed, err := s.limiter.Allow(ctx, key, s.cfg.RateLimit, s.cfg.RateWindow)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.Warn().Str("ip", sub.IP).Msg("contact submission rate limited")
		return ErrRateLimited
	}

	if err := s.verifyCaptcha(ctx, sub.CaptchaToken, sub.IP); err != nil {
		return err
	}

	if err := s.validate(sub); err != nil {
		return err
	}

	msg, err := buildContactEmail(s.cfg.RecipientEmail, sub, s.clock.Now())
	if err != nil {
		return err
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("email", sub.Email).Msg("contact notification dispatch failed")
		return &DispatchError{Err: err}
	}

	s.logger.Info().
		Str("email", sub.Email).
		Str("company", sub.Company).
		Str("topic", sub.Topic).
		Msg("contact submission relayed")
	return nil
}

func (s *ContactService) verifyCaptcha(ctx context.Context, token, ip string) error {
	if token == "" {
		return ErrCaptchaMissing
	}

	result, err := s.verifier.Verify(ctx, token, ip)
	if err != nil {
		// Unreachable verification service counts as a failed check.
		s.logger.Error().Err(err).Msg("captcha verification unreachable")
		return ErrCaptchaRejected
	}
	if !result.Success || result.Score < s.cfg.MinCaptchaScore {
		s.logger.Warn().
			Bool("success", result.Success).
			Float64("score", result.Score).
			Msg("captcha verification rejected")
		return ErrCaptchaRejected
	}
	return nil
}

func (s *ContactService) validate(sub ContactSubmission) error {
	profile := form.ContactProfile()
	values := form.Values{
		form.FieldFirstName:  sub.FirstName,
		form.FieldLastName:   sub.LastName,
		form.FieldCompany:    sub.Company,
		form.FieldEmail:      sub.Email,
		form.FieldPhone:      sub.Phone,
		form.FieldCountry:    sub.Country,
		form.FieldCity:       sub.City,
		form.FieldPostalCode: sub.PostalCode,
		form.FieldTopic:      sub.Topic,
		form.FieldMessage:    sub.Message,
	}

	if problems := profile.Validate(values); len(problems) != 0 {
		return NewValidationError(firstProblem(problems), problems)
	}

	if msg := form.CheckMessage(sub.Message); msg != "" {
		s.logger.Warn().Str("ip", sub.IP).Msg("contact message failed spam heuristics")
		return NewValidationError(msg, nil)
	}

	return nil
}

// firstProblem picks a deterministic summary message out of the field
// problems, scanning fields in render order.
func firstProblem(problems map[form.Field]string) string {
	for _, f := range form.AllFields {
		if msg, ok := problems[f]; ok {
			return msg
		}
	}
	for _, msg := range problems {
		return msg
	}
	return "Invalid submission"
}
