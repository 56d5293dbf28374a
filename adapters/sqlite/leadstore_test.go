package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/marvilon/leadgate/domain/lead"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return db
}

func TestLeadStore_AppendAndList(t *testing.T) {
	store := NewLeadStore(openTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []lead.Record{
		{ID: "l2", FirstName: "Sam", LastName: "Lee", Email: "sam@x.example", Company: "X", Country: "Japan", ProductID: "marv2x-pro", SubmittedAt: base.Add(time.Hour)},
		{ID: "l1", FirstName: "Jane", LastName: "Doe", Email: "jane@acme.example", Company: "Acme", Country: "Germany", Phone: "+49 30 1234", ProductID: "marv2x", SubmittedAt: base},
	}

	for _, r := range records {
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("Append(%s) failed: %v", r.ID, err)
		}
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List returned %d records, want 2", len(got))
	}

	// Ordered by submission time, not insert order.
	if got[0].ID != "l1" || got[1].ID != "l2" {
		t.Errorf("order: got %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Phone != "+49 30 1234" {
		t.Errorf("Phone = %q", got[0].Phone)
	}
	if !got[0].SubmittedAt.Equal(base) {
		t.Errorf("SubmittedAt = %v, want %v", got[0].SubmittedAt, base)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
}
