package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/marvilon/leadgate/adapters/captcha"
	"github.com/marvilon/leadgate/adapters/clock"
	"github.com/marvilon/leadgate/adapters/email"
	"github.com/marvilon/leadgate/adapters/filestore"
	"github.com/marvilon/leadgate/adapters/idgen"
	"github.com/marvilon/leadgate/adapters/memory"
	"github.com/marvilon/leadgate/ports"
)

func validSpecRequest() SpecRequestSubmission {
	return SpecRequestSubmission{
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane.doe@acme.example",
		Company:      "Acme Metrology",
		Country:      "Germany",
		Phone:        "+49 89 1234567",
		ProductID:    "marv2x-3d",
		Timestamp:    "2025-06-01T12:00:00Z",
		CaptchaToken: "tok-1",
		IP:           "203.0.113.7",
		UserAgent:    "test-agent",
	}
}

type specFixture struct {
	svc      *SpecRequestService
	verifier *captcha.MockVerifier
	sender   *email.MockSender
	leads    ports.LeadStore
	clock    *clock.Fake
}

func newSpecFixture(t *testing.T) *specFixture {
	t.Helper()
	fake := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	verifier := captcha.NewMockVerifier(true, 0.9)
	sender := email.NewMockSender()
	leads, err := filestore.NewLeadStore(t.TempDir())
	if err != nil {
		t.Fatalf("lead store: %v", err)
	}
	limiter := NewRateLimitService(memory.NewRateLimitStore(), fake, zerolog.Nop(), 0)
	svc := NewSpecRequestService(limiter, verifier, sender, leads, fake, idgen.NewSequential("lead-"), zerolog.Nop(), SpecRequestConfig{
		RecipientEmail: "sales@marvilon.example",
	})
	return &specFixture{svc: svc, verifier: verifier, sender: sender, leads: leads, clock: fake}
}

func TestSpecRequestSubmit_Success(t *testing.T) {
	fx := newSpecFixture(t)

	if err := fx.svc.Submit(context.Background(), validSpecRequest()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	msg, ok := fx.sender.Last()
	if !ok {
		t.Fatal("no notification email dispatched")
	}
	if want := "[Spec Request] marv2x-3d - Jane Doe"; msg.Subject != want {
		t.Errorf("Subject = %q, want %q", msg.Subject, want)
	}
	if !strings.Contains(msg.TextBody, "marv2x-3d") {
		t.Error("text body missing product id")
	}

	records, err := fx.leads.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("stored %d leads, want 1", len(records))
	}
	if records[0].ProductID != "marv2x-3d" {
		t.Errorf("ProductID = %q", records[0].ProductID)
	}
	// Client-supplied RFC3339 timestamp is honored.
	if !records[0].SubmittedAt.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("SubmittedAt = %v", records[0].SubmittedAt)
	}
}

func TestSpecRequestSubmit_DispatchFailureStillSucceeds(t *testing.T) {
	fx := newSpecFixture(t)
	fx.sender.SetShouldFail(true, errors.New("relay down"))

	var failures int
	fx.svc.OnDispatchFailure(func() { failures++ })

	if err := fx.svc.Submit(context.Background(), validSpecRequest()); err != nil {
		t.Fatalf("Submit should succeed despite relay failure, got %v", err)
	}
	if failures != 1 {
		t.Errorf("dispatch failure hook fired %d times, want 1", failures)
	}

	// The lead is still captured.
	records, _ := fx.leads.List(context.Background())
	if len(records) != 1 {
		t.Errorf("stored %d leads, want 1", len(records))
	}
}

func TestSpecRequestSubmit_LowScore(t *testing.T) {
	fx := newSpecFixture(t)
	fx.verifier.Result.Score = 0.3

	err := fx.svc.Submit(context.Background(), validSpecRequest())
	if !errors.Is(err, ErrCaptchaRejected) {
		t.Fatalf("err = %v, want ErrCaptchaRejected", err)
	}
	if fx.sender.Count() != 0 {
		t.Error("email dispatched despite low bot score")
	}
	if records, _ := fx.leads.List(context.Background()); len(records) != 0 {
		t.Error("lead stored despite rejected captcha")
	}
}

func TestSpecRequestSubmit_MissingProductID(t *testing.T) {
	fx := newSpecFixture(t)

	sub := validSpecRequest()
	sub.ProductID = ""
	err := fx.svc.Submit(context.Background(), sub)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if !strings.Contains(verr.Message, "productId") {
		t.Errorf("Message = %q, should name productId", verr.Message)
	}
}

func TestSpecRequestSubmit_MissingRequiredField(t *testing.T) {
	fx := newSpecFixture(t)

	sub := validSpecRequest()
	sub.Country = ""
	err := fx.svc.Submit(context.Background(), sub)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
}

func TestSpecRequestSubmit_RateLimited(t *testing.T) {
	fx := newSpecFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := fx.svc.Submit(ctx, validSpecRequest()); err != nil {
			t.Fatalf("submission %d failed: %v", i+1, err)
		}
	}

	if err := fx.svc.Submit(ctx, validSpecRequest()); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestSpecRequestSubmit_NilLeadStore(t *testing.T) {
	fake := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	limiter := NewRateLimitService(memory.NewRateLimitStore(), fake, zerolog.Nop(), 0)
	svc := NewSpecRequestService(limiter, captcha.NewMockVerifier(true, 0.9), email.NewMockSender(), nil, fake, idgen.NewSequential("lead-"), zerolog.Nop(), SpecRequestConfig{
		RecipientEmail: "sales@marvilon.example",
	})

	if err := svc.Submit(context.Background(), validSpecRequest()); err != nil {
		t.Fatalf("Submit with disabled lead store failed: %v", err)
	}
}

func TestSpecRequestSubmit_BadTimestampFallsBackToClock(t *testing.T) {
	fx := newSpecFixture(t)

	sub := validSpecRequest()
	sub.Timestamp = "yesterday-ish"
	if err := fx.svc.Submit(context.Background(), sub); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	records, _ := fx.leads.List(context.Background())
	if len(records) != 1 {
		t.Fatalf("stored %d leads, want 1", len(records))
	}
	if !records[0].SubmittedAt.Equal(fx.clock.Now()) {
		t.Errorf("SubmittedAt = %v, want clock time", records[0].SubmittedAt)
	}
}
