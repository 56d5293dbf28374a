// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/marvilon/leadgate/domain/lead"
	"github.com/marvilon/leadgate/domain/ratelimit"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Rate Limiting
// -----------------------------------------------------------------------------

// RateLimitStore persists fixed-window counters per client key.
// Implementations must make the check-and-increment atomic per key:
// two concurrent calls for the same key may never both pass the final slot.
type RateLimitStore interface {
	// Incr runs a fixed-window check for key and, when allowed, records
	// the request. Denied requests leave the stored state untouched.
	Incr(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (bool, error)

	// Info reports remaining budget and reset time for an active window.
	// ok is false when the key has no live window.
	Info(ctx context.Context, key string, limit int, now time.Time) (ratelimit.Info, bool, error)

	// Sweep removes entries whose window has passed and returns how many
	// were dropped. Stores with server-side expiry may make this a no-op.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// -----------------------------------------------------------------------------
// Outbound Services
// -----------------------------------------------------------------------------

// EmailMessage is a notification email ready for dispatch.
type EmailMessage struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender dispatches notification emails.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// CaptchaResult is the verification service's judgement of one token.
type CaptchaResult struct {
	Success bool
	Score   float64
	Action  string
}

// CaptchaVerifier exchanges a client-issued token for a bot-confidence score.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (CaptchaResult, error)
}

// -----------------------------------------------------------------------------
// Data Stores
// -----------------------------------------------------------------------------

// LeadStore persists captured spec-request leads.
// Appends are best-effort from the caller's perspective; a failed append
// must never fail the originating request.
type LeadStore interface {
	Append(ctx context.Context, r lead.Record) error
	List(ctx context.Context) ([]lead.Record, error)
}

// KVStore is the client-side persisted state abstraction: the non-browser
// stand-in for localStorage. Implementations are synchronous and per-visitor.
type KVStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// SpecChecker verifies that a specification resource exists before a
// download is attempted. The check must be side-effect free.
type SpecChecker interface {
	Exists(ctx context.Context, specPath string) (bool, error)
}
