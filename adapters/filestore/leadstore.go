// Package filestore provides a file-per-record implementation of the lead
// store: each spec request lands as one JSON file in a data directory.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marvilon/leadgate/domain/lead"
	"github.com/marvilon/leadgate/ports"
)

// LeadStore appends leads as individual JSON files. Records are never
// rewritten; the directory is an append-only log read back only by the
// administrative List.
type LeadStore struct {
	dir string
}

// NewLeadStore creates a lead store rooted at dir, creating it if needed.
func NewLeadStore(dir string) (*LeadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lead dir: %w", err)
	}
	return &LeadStore{dir: dir}, nil
}

// Append writes one lead record to its own file.
func (s *LeadStore) Append(ctx context.Context, r lead.Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lead: %w", err)
	}

	path := filepath.Join(s.dir, r.Filename())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write lead: %w", err)
	}
	return nil
}

// List reads every stored lead back, sorted by filename (submission order).
func (s *LeadStore) List(ctx context.Context) ([]lead.Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read lead dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	records := make([]lead.Record, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read lead %s: %w", name, err)
		}
		var r lead.Record
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("parse lead %s: %w", name, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// Ensure interface compliance.
var _ ports.LeadStore = (*LeadStore)(nil)
