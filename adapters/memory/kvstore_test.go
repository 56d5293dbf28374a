package memory_test

import (
	"testing"

	"github.com/marvilon/leadgate/adapters/memory"
)

func TestKVStore_RoundTrip(t *testing.T) {
	kv := memory.NewKVStore()

	if _, ok := kv.Get("missing"); ok {
		t.Error("missing key should not resolve")
	}

	if err := kv.Set("marvilon_spec_access", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, ok := kv.Get("marvilon_spec_access")
	if !ok || v != "true" {
		t.Errorf("Get = (%q, %v), want (true, true)", v, ok)
	}

	if err := kv.Delete("marvilon_spec_access"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := kv.Get("marvilon_spec_access"); ok {
		t.Error("deleted key should not resolve")
	}
}

func TestKVStore_FailWrites(t *testing.T) {
	kv := memory.NewKVStore()
	kv.FailWrites = true

	if err := kv.Set("k", "v"); err == nil {
		t.Error("Set should fail when writes are disabled")
	}
}
