package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRecaptchaVerifier_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("secret") != "secret_key" {
			t.Errorf("secret = %q", r.PostForm.Get("secret"))
		}
		if r.PostForm.Get("response") != "tok_abc" {
			t.Errorf("response = %q", r.PostForm.Get("response"))
		}
		if r.PostForm.Get("remoteip") != "1.2.3.4" {
			t.Errorf("remoteip = %q", r.PostForm.Get("remoteip"))
		}
		w.Write([]byte(`{"success": true, "score": 0.9, "action": "contact_form"}`))
	}))
	defer srv.Close()

	v, err := NewRecaptchaVerifier(RecaptchaConfig{SecretKey: "secret_key", VerifyURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	result, err := v.Verify(context.Background(), "tok_abc", "1.2.3.4")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !result.Success || result.Score != 0.9 || result.Action != "contact_form" {
		t.Errorf("result = %+v", result)
	}
}

func TestRecaptchaVerifier_LowScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "score": 0.3}`))
	}))
	defer srv.Close()

	v, _ := NewRecaptchaVerifier(RecaptchaConfig{SecretKey: "k", VerifyURL: srv.URL})
	result, err := v.Verify(context.Background(), "tok", "")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	// The adapter reports the score; thresholding is the caller's decision.
	if result.Score != 0.3 {
		t.Errorf("Score = %v, want 0.3", result.Score)
	}
}

func TestRecaptchaVerifier_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success": true, "score": 1.0}`))
	}))
	defer srv.Close()

	v, _ := NewRecaptchaVerifier(RecaptchaConfig{
		SecretKey: "k",
		VerifyURL: srv.URL,
		Timeout:   20 * time.Millisecond,
	})

	if _, err := v.Verify(context.Background(), "tok", ""); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestNewRecaptchaVerifier_RequiresSecret(t *testing.T) {
	if _, err := NewRecaptchaVerifier(RecaptchaConfig{}); err == nil {
		t.Error("missing secret should fail")
	}
}
