package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/marvilon/leadgate/domain/form"
	"github.com/marvilon/leadgate/domain/lead"
	"github.com/marvilon/leadgate/pkg/clientid"
	"github.com/marvilon/leadgate/ports"
)

// SpecRequestConfig tunes the spec-request submission pipeline.
type SpecRequestConfig struct {
	RecipientEmail  string
	RateLimit       int
	RateWindow      time.Duration
	MinCaptchaScore float64
}

// SpecRequestSubmission is one parsed access-gate body plus request metadata.
type SpecRequestSubmission struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Company      string `json:"company"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	ProductID    string `json:"productId"`
	Timestamp    string `json:"timestamp"`
	CaptchaToken string `json:"captchaToken"`

	// Filled by the transport layer, not the client body.
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// SpecRequestService processes access-gate submissions. Unlike the contact
// path, a failed notification email does NOT fail the request: the lead is
// captured and the visitor gets their download either way. The failure is
// logged and counted, nothing more.
type SpecRequestService struct {
	limiter  *RateLimitService
	verifier ports.CaptchaVerifier
	sender   ports.EmailSender
	leads    ports.LeadStore
	clock    ports.Clock
	idgen    ports.IDGenerator
	logger   zerolog.Logger
	cfg      SpecRequestConfig

	// onDispatchFailure is an optional hook for metrics.
	onDispatchFailure func()
}

// NewSpecRequestService creates a spec-request submission service.
// leads may be nil when lead persistence is disabled.
func NewSpecRequestService(
	limiter *RateLimitService,
	verifier ports.CaptchaVerifier,
	sender ports.EmailSender,
	leads ports.LeadStore,
	clock ports.Clock,
	idgen ports.IDGenerator,
	logger zerolog.Logger,
	cfg SpecRequestConfig,
) *SpecRequestService {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Hour
	}
	if cfg.MinCaptchaScore <= 0 {
		cfg.MinCaptchaScore = 0.5
	}
	return &SpecRequestService{
		limiter:  limiter,
		verifier: verifier,
		sender:   sender,
		leads:    leads,
		clock:    clock,
		idgen:    idgen,
		logger:   logger,
		cfg:      cfg,
	}
}

// OnDispatchFailure registers a callback invoked when the notification email
// fails on the non-fatal path.
func (s *SpecRequestService) OnDispatchFailure(fn func()) {
	s.onDispatchFailure = fn
}

// Submit runs the full spec-request pipeline for one submission.
func (s *SpecRequestService) Submit(ctx context.Context, sub SpecRequestSubmission) error {
	key := "spec:" + clientid.Key(sub.IP, sub.UserAgent)

	allowed, err := s.limiter.Allow(ctx, key, s.cfg.RateLimit, s.cfg.RateWindow)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.Warn().Str("ip", sub.IP).Msg("spec request rate limited")
		return ErrRateLimited
	}

	if err := s.verifyCaptcha(ctx, sub.CaptchaToken, sub.IP); err != nil {
		return err
	}

	if err := s.validate(sub); err != nil {
		return err
	}

	record := s.buildRecord(sub)
	s.storeLead(ctx, record)

	msg, err := buildSpecRequestEmail(s.cfg.RecipientEmail, sub, record.SubmittedAt)
	if err != nil {
		return err
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		// Intentionally non-fatal: don't lose the lead over a transient
		// mail failure.
		s.logger.Error().Err(err).
			Str("email", sub.Email).
			Str("product_id", sub.ProductID).
			Msg("spec request notification dispatch failed")
		if s.onDispatchFailure != nil {
			s.onDispatchFailure()
		}
		return nil
	}

	s.logger.Info().
		Str("email", sub.Email).
		Str("product_id", sub.ProductID).
		Msg("spec request relayed")
	return nil
}

func (s *SpecRequestService) verifyCaptcha(ctx context.Context, token, ip string) error {
	if token == "" {
		return ErrCaptchaMissing
	}

	result, err := s.verifier.Verify(ctx, token, ip)
	if err != nil {
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

func (s *SpecRequestService) validate(sub SpecRequestSubmission) error {
	profile := form.SpecGateProfile()
	values := form.Values{
		form.FieldFirstName: sub.FirstName,
		form.FieldLastName:  sub.LastName,
		form.FieldEmail:     sub.Email,
		form.FieldCompany:   sub.Company,
		form.FieldCountry:   sub.Country,
		form.FieldPhone:     sub.Phone,
	}

	problems := profile.Validate(values)
	if sub.ProductID == "" {
		return NewValidationError(
			"Missing required fields: firstName, lastName, email, company, country, and productId are required",
			problems,
		)
	}
	if len(problems) != 0 {
		return NewValidationError(firstProblem(problems), problems)
	}
	return nil
}

func (s *SpecRequestService) buildRecord(sub SpecRequestSubmission) lead.Record {
	submittedAt := s.clock.Now()
	if sub.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, sub.Timestamp); err == nil {
			submittedAt = t
		}
	}

	return lead.Record{
		ID:          s.idgen.New(),
		FirstName:   sub.FirstName,
		LastName:    sub.LastName,
		Email:       sub.Email,
		Company:     sub.Company,
		Country:     sub.Country,
		Phone:       sub.Phone,
		ProductID:   sub.ProductID,
		SubmittedAt: submittedAt,
	}
}

// storeLead appends the lead best-effort: a storage failure is logged and
// swallowed, never surfaced to the visitor.
func (s *SpecRequestService) storeLead(ctx context.Context, record lead.Record) {
	if s.leads == nil {
		return
	}
	if err := s.leads.Append(ctx, record); err != nil {
		s.logger.Error().Err(err).
			Str("lead_id", record.ID).
			Msg("lead store append failed")
	}
}
