// Package gate is the client-model access gate: the state machine that
// decides whether a visitor may download a product's specification PDF.
// Access is granted once, after a successful spec-request submission, and
// persisted in the visitor's key-value store with no expiry.
package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/marvilon/leadgate/domain/catalog"
	"github.com/marvilon/leadgate/ports"
)

// AccessKey is the persisted access-flag storage key.
const AccessKey = "marvilon_spec_access"

// Button labels per access state.
const (
	LabelLocked   = "Request Full Specs"
	LabelUnlocked = "Download PDF"
)

// ErrSpecUnavailable is surfaced verbatim when the PDF does not exist.
var ErrSpecUnavailable = errors.New("Specification not available for this product")

// closeDelay lets the modal close transition finish before the download
// starts.
const closeDelay = 300 * time.Millisecond

// State is the gate's position in its lifecycle.
type State int

const (
	// Locked: the visitor has not submitted the gate form yet.
	Locked State = iota
	// AwaitingSubmission: the modal is open, form pending.
	AwaitingSubmission
	// Unlocked: access granted, downloads go straight through.
	Unlocked
)

func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case AwaitingSubmission:
		return "awaiting_submission"
	case Unlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// Downloader performs the actual file retrieval once the gate allows it.
type Downloader interface {
	Download(ctx context.Context, specPath, filename string) error
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(ctx context.Context, specPath, filename string) error

// Download calls the wrapped function.
func (f DownloaderFunc) Download(ctx context.Context, specPath, filename string) error {
	return f(ctx, specPath, filename)
}

// Gate drives the access flow for one product view. Not safe for concurrent
// use: it models a single visitor's page.
type Gate struct {
	product catalog.Product
	state   State

	kv         ports.KVStore
	checker    ports.SpecChecker
	downloader Downloader
	logger     zerolog.Logger

	// sleep is swappable so tests skip the close-transition delay.
	sleep func(time.Duration)

	// focusReturn remembers what had focus before the modal opened.
	focusReturn string

	listeners []func(unlocked bool)
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

// WithSleep replaces the close-transition delay (tests pass a no-op).
func WithSleep(fn func(time.Duration)) Option {
	return func(g *Gate) { g.sleep = fn }
}

// New creates a gate for one product. The initial state is read from the
// persisted access flag: a visitor who unlocked once stays unlocked.
func New(product catalog.Product, kv ports.KVStore, checker ports.SpecChecker, dl Downloader, opts ...Option) *Gate {
	g := &Gate{
		product:    product,
		state:      Locked,
		kv:         kv,
		checker:    checker,
		downloader: dl,
		logger:     zerolog.Nop(),
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(g)
	}
	if v, ok := kv.Get(AccessKey); ok && v == "true" {
		g.state = Unlocked
	}
	return g
}

// State returns the current gate state.
func (g *Gate) State() State { return g.state }

// ButtonLabel returns the action-button caption for the current state.
func (g *Gate) ButtonLabel() string {
	if g.state == Unlocked {
		return LabelUnlocked
	}
	return LabelLocked
}

// Subscribe registers a cross-view listener notified when the access state
// changes, so other open views relabel without a reload.
func (g *Gate) Subscribe(fn func(unlocked bool)) {
	g.listeners = append(g.listeners, fn)
}

// Open moves a locked gate to AwaitingSubmission, remembering focusReturn
// (the triggering element) for restoration when the modal closes. An
// unlocked gate ignores Open.
func (g *Gate) Open(focusReturn string) {
	if g.state != Locked {
		return
	}
	g.state = AwaitingSubmission
	g.focusReturn = focusReturn
}

// Cancel closes the modal without granting access.
func (g *Gate) Cancel() string {
	if g.state != AwaitingSubmission {
		return ""
	}
	g.state = Locked
	ret := g.focusReturn
	g.focusReturn = ""
	return ret
}

// Unlock handles a successful gate-form submission: persist the access flag,
// close the modal, wait out the close transition, attempt the download, and
// notify listeners. The download failing does not re-lock the gate; access
// was legitimately earned.
func (g *Gate) Unlock(ctx context.Context) error {
	if g.state != AwaitingSubmission {
		return fmt.Errorf("unlock from %s", g.state)
	}

	if err := g.kv.Set(AccessKey, "true"); err != nil {
		// Access still works for this page view; only persistence is lost.
		g.logger.Warn().Err(err).Msg("access flag persistence failed")
	}
	g.state = Unlocked
	g.focusReturn = ""

	g.notify(true)

	g.sleep(closeDelay)
	if err := g.Download(ctx); err != nil {
		g.logger.Warn().Err(err).Str("product", g.product.ID).Msg("post-unlock download failed")
		return err
	}
	return nil
}

// Download retrieves the product's specification PDF. It is idempotent and
// never mutates access state: a missing file reports ErrSpecUnavailable and
// the visitor stays unlocked.
func (g *Gate) Download(ctx context.Context) error {
	specPath := g.product.SpecPath
	if specPath == "" {
		return ErrSpecUnavailable
	}

	exists, err := g.checker.Exists(ctx, specPath)
	if err != nil {
		return fmt.Errorf("check spec availability: %w", err)
	}
	if !exists {
		return ErrSpecUnavailable
	}

	filename := catalog.SpecFilename(g.product.Name)
	if err := g.downloader.Download(ctx, specPath, filename); err != nil {
		return fmt.Errorf("download spec: %w", err)
	}
	return nil
}

// Reset clears the persisted access flag and re-locks the gate (admin and
// test hook; there is no visitor-facing path to it).
func (g *Gate) Reset() {
	g.kv.Delete(AccessKey)
	g.state = Locked
	g.notify(false)
}

func (g *Gate) notify(unlocked bool) {
	for _, fn := range g.listeners {
		fn(unlocked)
	}
}
