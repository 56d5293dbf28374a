// Package lead defines spec-request lead records and their file naming.
package lead

import (
	"regexp"
	"time"
)

// Record is one captured spec-request lead.
type Record struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Country     string    `json:"country"`
	Phone       string    `json:"phone,omitempty"`
	ProductID   string    `json:"productId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

var (
	nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
	nonDigitRe = regexp.MustCompile(`[^0-9]`)
)

// Filename derives a stable, filesystem-safe name for the record:
// the digits of the submission timestamp followed by the sanitized email.
func (r Record) Filename() string {
	safeEmail := nonAlnumRe.ReplaceAllString(r.Email, "_")
	safeStamp := nonDigitRe.ReplaceAllString(r.SubmittedAt.UTC().Format(time.RFC3339), "")
	return safeStamp + "_" + safeEmail + ".json"
}
