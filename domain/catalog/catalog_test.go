package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSpecFilename(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"MARV2X Pro", "marv2x_pro_specifications.pdf"},
		{"Gauge-3000", "gauge_3000_specifications.pdf"},
		{"Simple", "simple_specifications.pdf"},
	}
	for _, tc := range cases {
		if got := SpecFilename(tc.name); got != tc.want {
			t.Errorf("SpecFilename(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestLoad(t *testing.T) {
	fixture := `[
		{"id": "marv2x", "name": "MARV2X", "shortDescription": "Inline optical gauge", "specPath": "/specs/marv2x.pdf"},
		{"id": "marv2x-pro", "name": "MARV2X Pro", "shortDescription": "Extended range"}
	]`

	path := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	p, ok := c.Get("marv2x")
	if !ok {
		t.Fatal("marv2x not found")
	}
	if p.SpecPath != "/specs/marv2x.pdf" {
		t.Errorf("SpecPath = %q", p.SpecPath)
	}

	if _, ok := c.Get("nope"); ok {
		t.Error("unknown ID should not resolve")
	}

	// Fixture order preserved.
	products := c.Products()
	if products[0].ID != "marv2x" || products[1].ID != "marv2x-pro" {
		t.Errorf("order not preserved: %v", products)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing fixture")
	}
}
