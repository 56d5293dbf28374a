// Package form provides pure validation logic for the site's lead forms.
// Rendering and transport live elsewhere; this package only decides what
// a valid submission looks like.
package form

import "regexp"

// Field identifies a form field by its wire name.
type Field string

// The fixed superset of fields a form can carry.
const (
	FieldFirstName  Field = "firstName"
	FieldLastName   Field = "lastName"
	FieldCompany    Field = "company"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldCountry    Field = "country"
	FieldCity       Field = "city"
	FieldPostalCode Field = "postalCode"
	FieldTopic      Field = "topic"
	FieldMessage    Field = "message"
)

// AllFields lists every known field in render order.
var AllFields = []Field{
	FieldFirstName, FieldLastName, FieldCompany, FieldEmail, FieldPhone,
	FieldCountry, FieldCity, FieldPostalCode, FieldTopic, FieldMessage,
}

// Values maps field names to their submitted string values.
type Values map[Field]string

// Message length bounds.
const (
	MinMessageLength = 20
	MaxMessageLength = 2000
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^[\d\s\-\+\(\)]+$`)
	postalCodeRe = regexp.MustCompile(`^[A-Za-z0-9\s\-]+$`)
	nameRe       = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
)

// ValidateField checks one field value against its rule and returns a
// human-readable problem, or "" when the value is acceptable.
// Requiredness is the profile's concern; an empty optional value passes here.
func ValidateField(f Field, value string) string {
	switch f {
	case FieldFirstName, FieldLastName:
		if len(value) < 2 {
			return "Must be at least 2 characters"
		}
		if len(value) > 50 {
			return "Must not exceed 50 characters"
		}
		if !nameRe.MatchString(value) {
			return "Only letters, spaces, hyphens, and apostrophes allowed"
		}
	case FieldCompany:
		if len(value) < 2 {
			return "Must be at least 2 characters"
		}
		if len(value) > 100 {
			return "Must not exceed 100 characters"
		}
	case FieldEmail:
		if !emailRe.MatchString(value) {
			return "Please enter a valid email address"
		}
		if len(value) > 100 {
			return "Email is too long"
		}
	case FieldPhone:
		if value == "" {
			return ""
		}
		if !phoneRe.MatchString(value) {
			return "Please enter a valid phone number"
		}
		if len(value) > 20 {
			return "Phone number is too long"
		}
	case FieldPostalCode:
		if value == "" {
			return ""
		}
		if !postalCodeRe.MatchString(value) {
			return "Please enter a valid postal code"
		}
		if len(value) > 20 {
			return "Postal code is too long"
		}
	case FieldMessage:
		if len(value) < MinMessageLength {
			return "Message must be at least 20 characters"
		}
		if len(value) > MaxMessageLength {
			return "Message must not exceed 2000 characters"
		}
	case FieldCountry, FieldCity, FieldTopic:
		// Freeform. Requiredness, where it applies, is enforced by the profile.
	}
	return ""
}
