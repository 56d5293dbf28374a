package lead

import (
	"strings"
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	r := Record{
		Email:       "jane.doe+spec@acme.example",
		SubmittedAt: time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC),
	}

	name := r.Filename()

	if !strings.HasSuffix(name, ".json") {
		t.Errorf("Filename() = %q, want .json suffix", name)
	}
	if !strings.HasPrefix(name, "20250601123045_") {
		t.Errorf("Filename() = %q, want timestamp-digit prefix", name)
	}
	if strings.ContainsAny(name, "@+ /") {
		t.Errorf("Filename() = %q contains unsafe characters", name)
	}
}

func TestFilename_Deterministic(t *testing.T) {
	r := Record{Email: "a@b.c", SubmittedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
	if r.Filename() != r.Filename() {
		t.Error("Filename must be deterministic")
	}
}
