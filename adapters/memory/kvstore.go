package memory

import (
	"sync"

	"github.com/marvilon/leadgate/ports"
)

// KVStore is an in-memory implementation of ports.KVStore: the stand-in for
// a browser's localStorage when the client components run outside one.
type KVStore struct {
	mu     sync.RWMutex
	values map[string]string

	// FailWrites simulates a disabled storage backend (for tests).
	FailWrites bool
}

// NewKVStore creates an empty key-value store.
func NewKVStore() *KVStore {
	return &KVStore{values: make(map[string]string)}
}

// Get returns the stored value and whether the key exists.
func (s *KVStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value under key.
func (s *KVStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return errStorageDisabled
	}
	s.values[key] = value
	return nil
}

// Delete removes a key.
func (s *KVStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return errStorageDisabled
	}
	delete(s.values, key)
	return nil
}

type storageError string

func (e storageError) Error() string { return string(e) }

const errStorageDisabled = storageError("kv store writes disabled")

// Ensure interface compliance.
var _ ports.KVStore = (*KVStore)(nil)
