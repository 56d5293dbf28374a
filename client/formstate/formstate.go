// Package formstate is the client-model form engine: the state machine a
// browser form runs through - keystrokes, blur validation, draft persistence,
// captcha token acquisition, submission. It is transport-agnostic; the network
// call and the token source are injected.
package formstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/marvilon/leadgate/domain/form"
	"github.com/marvilon/leadgate/ports"
)

// DraftKey is the persisted-draft storage key for the contact form.
const DraftKey = "marvilon_contact_form_backup"

// Status is the submission lifecycle state of the form.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TokenSource obtains a bot-verification token tied to a named action.
type TokenSource interface {
	Token(ctx context.Context, action string) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context, action string) (string, error)

// Token calls the wrapped function.
func (f TokenSourceFunc) Token(ctx context.Context, action string) (string, error) {
	return f(ctx, action)
}

// Submitter delivers a finished payload to the backend. The default
// implementation POSTs to the profile's endpoint; tests and the access gate
// inject their own.
type Submitter interface {
	Submit(ctx context.Context, endpoint string, payload map[string]string) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, endpoint string, payload map[string]string) error

// Submit calls the wrapped function.
func (f SubmitterFunc) Submit(ctx context.Context, endpoint string, payload map[string]string) error {
	return f(ctx, endpoint, payload)
}

// Form is one live instance of the generic form engine, specialized by a
// profile. Not safe for concurrent use: it models a single visitor's form.
type Form struct {
	profile   form.Profile
	hidden    map[string]string
	values    form.Values
	touched   map[form.Field]bool
	errors    map[form.Field]string
	status    Status
	errMsg    string
	persisted bool

	tokens    TokenSource
	submitter Submitter
	drafts    ports.KVStore
	clock     ports.Clock
	logger    zerolog.Logger
}

// Option configures a Form.
type Option func(*Form)

// WithHiddenFields splices fixed extra fields (e.g. productId) into every
// submission payload.
func WithHiddenFields(fields map[string]string) Option {
	return func(f *Form) {
		f.hidden = fields
	}
}

// WithDraftStore mirrors in-progress values to the given store under DraftKey
// and rehydrates them on construction.
func WithDraftStore(kv ports.KVStore) Option {
	return func(f *Form) {
		f.drafts = kv
		f.persisted = true
	}
}

// WithSubmitter replaces the submission transport.
func WithSubmitter(s Submitter) Option {
	return func(f *Form) {
		f.submitter = s
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Form) {
		f.logger = l
	}
}

// New creates a form for the given profile. tokens and a Submitter (via
// WithSubmitter) must be provided before Submit is called.
func New(profile form.Profile, tokens TokenSource, clock ports.Clock, opts ...Option) *Form {
	f := &Form{
		profile: profile,
		values:  make(form.Values),
		touched: make(map[form.Field]bool),
		errors:  make(map[form.Field]string),
		status:  StatusIdle,
		tokens:  tokens,
		clock:   clock,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.rehydrate()
	return f
}

// Profile returns the profile the form was built with.
func (f *Form) Profile() form.Profile { return f.profile }

// Status returns the current submission status.
func (f *Form) Status() Status { return f.status }

// ErrorMessage returns the last submission error summary, or "".
func (f *Form) ErrorMessage() string { return f.errMsg }

// Value returns the current value of a field.
func (f *Form) Value(field form.Field) string { return f.values[field] }

// FieldError returns the inline problem for a field the visitor has touched.
func (f *Form) FieldError(field form.Field) string {
	if !f.touched[field] {
		return ""
	}
	return f.errors[field]
}

// SubmitLabel returns the button caption for the current status.
func (f *Form) SubmitLabel() string {
	if f.status == StatusSubmitting {
		return f.profile.SubmitBusyLabel
	}
	return f.profile.SubmitLabel
}

// SetField records a keystroke-level change. Hidden fields are ignored.
// Fields already touched revalidate immediately so the inline error tracks
// the correction.
func (f *Form) SetField(field form.Field, value string) {
	if !f.profile.Visible(field) {
		return
	}
	f.values[field] = value
	if f.touched[field] {
		f.validateOne(field)
	}
	f.persistDraft()
}

// Blur marks the field touched and validates it, surfacing the inline error.
func (f *Form) Blur(field form.Field) {
	if !f.profile.Visible(field) {
		return
	}
	f.touched[field] = true
	f.validateOne(field)
}

// Valid reports whether the form would pass submission validation right now.
func (f *Form) Valid() bool {
	return len(f.profile.Validate(f.values)) == 0
}

// Submit runs the full client-side submission flow: touch everything,
// validate, fetch a token, merge the payload, deliver. An invalid form aborts
// before any network activity.
func (f *Form) Submit(ctx context.Context) error {
	for field := range f.profile.Fields {
		if f.profile.Visible(field) {
			f.touched[field] = true
		}
	}

	problems := f.profile.Validate(f.values)
	f.errors = problems
	if len(problems) > 0 {
		f.status = StatusFailed
		f.errMsg = "Please correct the highlighted fields"
		return fmt.Errorf("form invalid: %d field problem(s)", len(problems))
	}

	if f.submitter == nil {
		return fmt.Errorf("no submitter configured")
	}

	f.status = StatusSubmitting
	f.errMsg = ""

	token, err := f.tokens.Token(ctx, f.profile.CaptchaAction)
	if err != nil {
		f.fail("Verification failed. Please try again.")
		return fmt.Errorf("obtain captcha token: %w", err)
	}

	payload := f.buildPayload(token)
	if err := f.submitter.Submit(ctx, f.profile.Endpoint, payload); err != nil {
		f.fail(err.Error())
		return err
	}

	f.succeed()
	return nil
}

// buildPayload merges visible values, hidden fields, the token and a
// timestamp into the wire body.
func (f *Form) buildPayload(token string) map[string]string {
	pruned := f.profile.Prune(f.values)

	payload := make(map[string]string, len(pruned)+len(f.hidden)+2)
	for field, value := range pruned {
		if value != "" {
			payload[string(field)] = value
		}
	}
	for k, v := range f.hidden {
		payload[k] = v
	}
	payload["captchaToken"] = token
	payload["timestamp"] = f.clock.Now().UTC().Format(time.RFC3339)
	return payload
}

func (f *Form) succeed() {
	f.status = StatusSucceeded
	f.errMsg = ""
	f.values = make(form.Values)
	f.touched = make(map[form.Field]bool)
	f.errors = make(map[form.Field]string)
	f.clearDraft()
}

// fail keeps the entered values so the visitor can correct and resubmit.
func (f *Form) fail(msg string) {
	f.status = StatusFailed
	f.errMsg = msg
}

func (f *Form) validateOne(field form.Field) {
	value := f.values[field]
	if value == "" {
		if f.profile.Required(field) {
			f.errors[field] = "This field is required"
		} else {
			delete(f.errors, field)
		}
		return
	}
	if msg := form.ValidateField(field, value); msg != "" {
		f.errors[field] = msg
	} else {
		delete(f.errors, field)
	}
}

// -----------------------------------------------------------------------------
// Draft persistence
// -----------------------------------------------------------------------------

func (f *Form) persistDraft() {
	if !f.persisted {
		return
	}
	data, err := json.Marshal(f.values)
	if err != nil {
		return
	}
	if err := f.drafts.Set(DraftKey, string(data)); err != nil {
		// Quota or storage failure must never break typing.
		f.logger.Debug().Err(err).Msg("draft persistence failed")
	}
}

func (f *Form) rehydrate() {
	if !f.persisted {
		return
	}
	raw, ok := f.drafts.Get(DraftKey)
	if !ok {
		return
	}
	var saved form.Values
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		f.logger.Debug().Err(err).Msg("discarding unreadable draft")
		f.drafts.Delete(DraftKey)
		return
	}
	for field, value := range saved {
		if f.profile.Visible(field) {
			f.values[field] = value
		}
	}
}

func (f *Form) clearDraft() {
	if !f.persisted {
		return
	}
	if err := f.drafts.Delete(DraftKey); err != nil {
		f.logger.Debug().Err(err).Msg("draft clear failed")
	}
}
