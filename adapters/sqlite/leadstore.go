package sqlite

import (
	"context"
	"fmt"

	"github.com/marvilon/leadgate/domain/lead"
	"github.com/marvilon/leadgate/ports"
)

// LeadStore implements ports.LeadStore using SQLite.
type LeadStore struct {
	db *DB
}

// NewLeadStore creates a new SQLite lead store.
func NewLeadStore(db *DB) *LeadStore {
	return &LeadStore{db: db}
}

// Append stores one lead record.
func (s *LeadStore) Append(ctx context.Context, r lead.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (id, first_name, last_name, email, company, country, phone, product_id, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.FirstName, r.LastName, r.Email, r.Company, r.Country, r.Phone, r.ProductID, r.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// List returns all stored leads in submission order.
func (s *LeadStore) List(ctx context.Context) ([]lead.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, company, country, phone, product_id, submitted_at
		FROM leads
		ORDER BY submitted_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var records []lead.Record
	for rows.Next() {
		var r lead.Record
		if err := rows.Scan(&r.ID, &r.FirstName, &r.LastName, &r.Email, &r.Company, &r.Country, &r.Phone, &r.ProductID, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Ensure interface compliance.
var _ ports.LeadStore = (*LeadStore)(nil)
