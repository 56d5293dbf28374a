package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marvilon/leadgate/adapters/memory"
	"github.com/marvilon/leadgate/domain/catalog"
)

type fakeChecker struct {
	exists bool
	err    error
	paths  []string
}

func (c *fakeChecker) Exists(ctx context.Context, specPath string) (bool, error) {
	c.paths = append(c.paths, specPath)
	return c.exists, c.err
}

type fakeDownloader struct {
	specPath string
	filename string
	count    int
	err      error
}

func (d *fakeDownloader) Download(ctx context.Context, specPath, filename string) error {
	d.specPath = specPath
	d.filename = filename
	d.count++
	return d.err
}

func testProduct() catalog.Product {
	return catalog.Product{
		ID:       "marv2x-3d",
		Name:     "MARV2X 3D",
		SpecPath: "/specs/marv2x-3d.pdf",
	}
}

func noSleep(time.Duration) {}

func newTestGate(kv *memory.KVStore, checker *fakeChecker, dl *fakeDownloader) *Gate {
	return New(testProduct(), kv, checker, dl, WithSleep(noSleep))
}

func TestInitialStateFromStore(t *testing.T) {
	kv := memory.NewKVStore()
	g := newTestGate(kv, &fakeChecker{exists: true}, &fakeDownloader{})
	if g.State() != Locked {
		t.Errorf("fresh visitor state = %v, want Locked", g.State())
	}
	if g.ButtonLabel() != LabelLocked {
		t.Errorf("ButtonLabel = %q", g.ButtonLabel())
	}

	kv.Set(AccessKey, "true")
	g2 := newTestGate(kv, &fakeChecker{exists: true}, &fakeDownloader{})
	if g2.State() != Unlocked {
		t.Errorf("returning visitor state = %v, want Unlocked", g2.State())
	}
	if g2.ButtonLabel() != LabelUnlocked {
		t.Errorf("ButtonLabel = %q", g2.ButtonLabel())
	}
}

func TestUnlockFlow(t *testing.T) {
	kv := memory.NewKVStore()
	dl := &fakeDownloader{}
	g := newTestGate(kv, &fakeChecker{exists: true}, dl)

	var signals []bool
	g.Subscribe(func(unlocked bool) { signals = append(signals, unlocked) })

	g.Open("request-button")
	if g.State() != AwaitingSubmission {
		t.Fatalf("state after Open = %v", g.State())
	}

	if err := g.Unlock(context.Background()); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if g.State() != Unlocked {
		t.Errorf("state = %v, want Unlocked", g.State())
	}
	if v, _ := kv.Get(AccessKey); v != "true" {
		t.Errorf("persisted access flag = %q, want true", v)
	}
	if g.ButtonLabel() != LabelUnlocked {
		t.Errorf("ButtonLabel = %q, want %q", g.ButtonLabel(), LabelUnlocked)
	}
	if dl.count != 1 {
		t.Errorf("download count = %d, want 1", dl.count)
	}
	if dl.filename != "marv2x_3d_specifications.pdf" {
		t.Errorf("download filename = %q", dl.filename)
	}
	if len(signals) != 1 || !signals[0] {
		t.Errorf("listener signals = %v, want [true]", signals)
	}
}

func TestUnlockOutOfOrder(t *testing.T) {
	g := newTestGate(memory.NewKVStore(), &fakeChecker{exists: true}, &fakeDownloader{})
	if err := g.Unlock(context.Background()); err == nil {
		t.Error("Unlock without an open modal should fail")
	}
}

func TestCancelRestoresFocus(t *testing.T) {
	g := newTestGate(memory.NewKVStore(), &fakeChecker{exists: true}, &fakeDownloader{})

	g.Open("request-button")
	if got := g.Cancel(); got != "request-button" {
		t.Errorf("Cancel returned focus target %q", got)
	}
	if g.State() != Locked {
		t.Errorf("state after Cancel = %v, want Locked", g.State())
	}
}

func TestDownloadMissingSpec(t *testing.T) {
	kv := memory.NewKVStore()
	kv.Set(AccessKey, "true")
	dl := &fakeDownloader{}
	g := newTestGate(kv, &fakeChecker{exists: false}, dl)

	err := g.Download(context.Background())
	if !errors.Is(err, ErrSpecUnavailable) {
		t.Fatalf("err = %v, want ErrSpecUnavailable", err)
	}
	if dl.count != 0 {
		t.Error("download attempted for missing spec")
	}
	// Access state untouched.
	if g.State() != Unlocked {
		t.Errorf("state = %v, want Unlocked", g.State())
	}
	if v, _ := kv.Get(AccessKey); v != "true" {
		t.Error("access flag should survive a missing spec")
	}
}

func TestDownloadNoSpecPath(t *testing.T) {
	p := testProduct()
	p.SpecPath = ""
	g := New(p, memory.NewKVStore(), &fakeChecker{exists: true}, &fakeDownloader{}, WithSleep(noSleep))
	if err := g.Download(context.Background()); !errors.Is(err, ErrSpecUnavailable) {
		t.Errorf("err = %v, want ErrSpecUnavailable", err)
	}
}

func TestDownloadIdempotent(t *testing.T) {
	kv := memory.NewKVStore()
	kv.Set(AccessKey, "true")
	dl := &fakeDownloader{}
	g := newTestGate(kv, &fakeChecker{exists: true}, dl)

	for i := 0; i < 3; i++ {
		if err := g.Download(context.Background()); err != nil {
			t.Fatalf("download %d failed: %v", i+1, err)
		}
	}
	if dl.count != 3 {
		t.Errorf("download count = %d", dl.count)
	}
	if g.State() != Unlocked {
		t.Errorf("state = %v", g.State())
	}
}

func TestUnlockSurvivesStorageFailure(t *testing.T) {
	kv := memory.NewKVStore()
	kv.FailWrites = true
	dl := &fakeDownloader{}
	g := newTestGate(kv, &fakeChecker{exists: true}, dl)

	g.Open("request-button")
	if err := g.Unlock(context.Background()); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	// Access works for this page view even though persistence failed.
	if g.State() != Unlocked {
		t.Errorf("state = %v, want Unlocked", g.State())
	}
	if dl.count != 1 {
		t.Error("download should still run")
	}
}

func TestReset(t *testing.T) {
	kv := memory.NewKVStore()
	kv.Set(AccessKey, "true")
	g := newTestGate(kv, &fakeChecker{exists: true}, &fakeDownloader{})

	g.Reset()
	if g.State() != Locked {
		t.Errorf("state after Reset = %v", g.State())
	}
	if _, ok := kv.Get(AccessKey); ok {
		t.Error("access flag should be deleted")
	}
}

func TestFocusTrapRing(t *testing.T) {
	trap := NewFocusTrap([]string{"firstName", "lastName", "email", "submit"}, nil)
	trap.Activate("request-button")

	if got := trap.Focused(); got != "firstName" {
		t.Errorf("initial focus = %q, want firstName", got)
	}

	trap.Tab()
	trap.Tab()
	if got := trap.Focused(); got != "email" {
		t.Errorf("focus after 2 tabs = %q", got)
	}

	// Tab wraps from last to first.
	trap.Tab()
	trap.Tab()
	if got := trap.Focused(); got != "firstName" {
		t.Errorf("focus after wrap = %q", got)
	}

	// Shift+Tab wraps from first to last.
	trap.ShiftTab()
	if got := trap.Focused(); got != "submit" {
		t.Errorf("focus after shift-tab wrap = %q", got)
	}
}

func TestFocusTrapEscape(t *testing.T) {
	closed := 0
	trap := NewFocusTrap([]string{"firstName", "submit"}, func() { closed++ })
	trap.Activate("request-button")

	if got := trap.Escape(); got != "request-button" {
		t.Errorf("Escape restored focus to %q", got)
	}
	if trap.Active() {
		t.Error("trap should deactivate on Escape")
	}
	if closed != 1 {
		t.Errorf("onClose fired %d times", closed)
	}

	// A second Escape is a no-op.
	if got := trap.Escape(); got != "" {
		t.Errorf("second Escape returned %q", got)
	}
	if closed != 1 {
		t.Errorf("onClose fired %d times after double escape", closed)
	}
}

func TestFocusTrapBackdropClick(t *testing.T) {
	trap := NewFocusTrap([]string{"firstName"}, nil)
	trap.Activate("request-button")

	// Clicking inside the dialog body does not close.
	if got := trap.BackdropClick(true); got != "" {
		t.Errorf("inside click returned %q", got)
	}
	if !trap.Active() {
		t.Error("trap should stay active on inside click")
	}

	if got := trap.BackdropClick(false); got != "request-button" {
		t.Errorf("backdrop click restored focus to %q", got)
	}
	if trap.Active() {
		t.Error("trap should deactivate on backdrop click")
	}
}
