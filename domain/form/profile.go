package form

import "strings"

// FieldSpec declares how a profile treats one field.
type FieldSpec struct {
	Visible  bool
	Required bool
}

// Profile is a named specialization of the generic form: which fields render,
// which are required, what the submit button says, and which captcha action
// the submission is tied to. Declaring profiles up front keeps the two real
// form variants explicit instead of threading a visibility map around.
type Profile struct {
	Name            string
	Fields          map[Field]FieldSpec
	CaptchaAction   string
	Endpoint        string
	SubmitLabel     string
	SubmitBusyLabel string
}

// ContactProfile is the full "contact us" form: every field visible.
func ContactProfile() Profile {
	return Profile{
		Name: "contact",
		Fields: map[Field]FieldSpec{
			FieldFirstName:  {Visible: true, Required: true},
			FieldLastName:   {Visible: true, Required: true},
			FieldCompany:    {Visible: true, Required: true},
			FieldEmail:      {Visible: true, Required: true},
			FieldPhone:      {Visible: true},
			FieldCountry:    {Visible: true},
			FieldCity:       {Visible: true},
			FieldPostalCode: {Visible: true},
			FieldTopic:      {Visible: true},
			FieldMessage:    {Visible: true, Required: true},
		},
		CaptchaAction:   "contact_form",
		Endpoint:        "/api/contact",
		SubmitLabel:     "Send Message",
		SubmitBusyLabel: "Sending...",
	}
}

// SpecGateProfile is the access-gate form shown before a spec download.
// Message, topic, city and postal code stay hidden; the product ID is
// injected as a hidden field by the caller.
func SpecGateProfile() Profile {
	return Profile{
		Name: "spec_gate",
		Fields: map[Field]FieldSpec{
			FieldFirstName: {Visible: true, Required: true},
			FieldLastName:  {Visible: true, Required: true},
			FieldEmail:     {Visible: true, Required: true},
			FieldCompany:   {Visible: true, Required: true},
			FieldPhone:     {Visible: true},
			FieldCountry:   {Visible: true, Required: true},
		},
		CaptchaAction:   "spec_request",
		Endpoint:        "/api/spec-request",
		SubmitLabel:     "Get Full Specifications",
		SubmitBusyLabel: "Submitting...",
	}
}

// Visible reports whether the profile renders the field.
// Fields the profile does not mention are hidden.
func (p Profile) Visible(f Field) bool {
	return p.Fields[f].Visible
}

// Required reports whether the profile requires the field.
func (p Profile) Required(f Field) bool {
	s := p.Fields[f]
	return s.Visible && s.Required
}

// Validate checks all visible fields of the profile against the submitted
// values. It returns a map of field name to problem; an empty map means the
// form is valid. Optional fields are validated only when non-empty.
func (p Profile) Validate(v Values) map[Field]string {
	problems := make(map[Field]string)

	for f, spec := range p.Fields {
		if !spec.Visible {
			continue
		}
		value := v[f]
		if strings.TrimSpace(value) == "" {
			if spec.Required {
				problems[f] = "This field is required"
			}
			continue
		}
		if msg := ValidateField(f, value); msg != "" {
			problems[f] = msg
		}
	}

	return problems
}

// Prune returns a copy of the values with every field the profile hides
// cleared to the empty string. Hidden fields never travel with a submission.
func (p Profile) Prune(v Values) Values {
	out := make(Values, len(v))
	for f, value := range v {
		if p.Visible(f) {
			out[f] = value
		} else {
			out[f] = ""
		}
	}
	return out
}
