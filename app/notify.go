package app

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/marvilon/leadgate/ports"
)

// notifyData feeds the notification templates for both endpoints.
type notifyData struct {
	SubmittedAt string
	FirstName   string
	LastName    string
	Company     string
	Email       string
	Phone       string
	Country     string
	City        string
	PostalCode  string
	Topic       string
	Message     string
	ProductID   string
	IP          string
}

func orNone(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}

const submittedAtLayout = "Monday, January 2, 2006 at 3:04 PM MST"

// buildContactEmail renders the sales notification for a contact submission.
func buildContactEmail(to string, sub ContactSubmission, at time.Time) (ports.EmailMessage, error) {
	data := notifyData{
		SubmittedAt: at.Format(submittedAtLayout),
		FirstName:   sub.FirstName,
		LastName:    sub.LastName,
		Company:     sub.Company,
		Email:       sub.Email,
		Phone:       orNone(sub.Phone),
		Country:     orNone(sub.Country),
		City:        orNone(sub.City),
		PostalCode:  orNone(sub.PostalCode),
		Topic:       sub.Topic,
		Message:     sub.Message,
		IP:          sub.IP,
	}
	if data.Topic == "" {
		data.Topic = "General Inquiry"
	}

	var text bytes.Buffer
	fmt.Fprintf(&text, "NEW CONTACT FORM SUBMISSION\n\n")
	fmt.Fprintf(&text, "Submitted: %s\n\n", data.SubmittedAt)
	fmt.Fprintf(&text, "Contact\n")
	fmt.Fprintf(&text, "  Name:        %s %s\n", data.FirstName, data.LastName)
	fmt.Fprintf(&text, "  Company:     %s\n", data.Company)
	fmt.Fprintf(&text, "  Email:       %s\n", data.Email)
	fmt.Fprintf(&text, "  Phone:       %s\n\n", data.Phone)
	fmt.Fprintf(&text, "Location\n")
	fmt.Fprintf(&text, "  Country:     %s\n", data.Country)
	fmt.Fprintf(&text, "  City:        %s\n", data.City)
	fmt.Fprintf(&text, "  Postal Code: %s\n\n", data.PostalCode)
	fmt.Fprintf(&text, "Inquiry\n")
	fmt.Fprintf(&text, "  Topic:       %s\n\n", data.Topic)
	fmt.Fprintf(&text, "%s\n\n", data.Message)
	fmt.Fprintf(&text, "Metadata\n")
	fmt.Fprintf(&text, "  IP Address:  %s\n", data.IP)
	fmt.Fprintf(&text, "  Verified:    reCAPTCHA v3 passed\n\n")
	fmt.Fprintf(&text, "Reply directly to this email to respond to %s.\n", data.FirstName)

	var html bytes.Buffer
	if err := contactTmpl.Execute(&html, data); err != nil {
		return ports.EmailMessage{}, fmt.Errorf("render contact email: %w", err)
	}

	subject := fmt.Sprintf("[%s] %s %s - %s", data.Topic, sub.FirstName, sub.LastName, sub.Company)
	return ports.EmailMessage{
		To:       to,
		ReplyTo:  sub.Email,
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}

// buildSpecRequestEmail renders the sales notification for a spec request.
func buildSpecRequestEmail(to string, sub SpecRequestSubmission, at time.Time) (ports.EmailMessage, error) {
	data := notifyData{
		SubmittedAt: at.Format(submittedAtLayout),
		FirstName:   sub.FirstName,
		LastName:    sub.LastName,
		Company:     sub.Company,
		Email:       sub.Email,
		Phone:       orNone(sub.Phone),
		Country:     sub.Country,
		ProductID:   sub.ProductID,
		IP:          sub.IP,
	}

	var text bytes.Buffer
	fmt.Fprintf(&text, "PRODUCT SPEC REQUEST\n\n")
	fmt.Fprintf(&text, "Submitted: %s\n\n", data.SubmittedAt)
	fmt.Fprintf(&text, "Contact\n")
	fmt.Fprintf(&text, "  Name:        %s %s\n", data.FirstName, data.LastName)
	fmt.Fprintf(&text, "  Email:       %s\n", data.Email)
	fmt.Fprintf(&text, "  Company:     %s\n", data.Company)
	fmt.Fprintf(&text, "  Country:     %s\n", data.Country)
	fmt.Fprintf(&text, "  Phone:       %s\n\n", data.Phone)
	fmt.Fprintf(&text, "Request\n")
	fmt.Fprintf(&text, "  Product ID:  %s\n", data.ProductID)
	fmt.Fprintf(&text, "  Action:      Spec Sheet Download Request\n\n")
	fmt.Fprintf(&text, "Metadata\n")
	fmt.Fprintf(&text, "  IP Address:  %s\n", data.IP)
	fmt.Fprintf(&text, "  Verified:    reCAPTCHA v3 passed\n\n")
	fmt.Fprintf(&text, "This user has requested product specifications for %s.\n", data.ProductID)
	fmt.Fprintf(&text, "Reply directly to this email to follow up with %s.\n", data.FirstName)

	var html bytes.Buffer
	if err := specRequestTmpl.Execute(&html, data); err != nil {
		return ports.EmailMessage{}, fmt.Errorf("render spec request email: %w", err)
	}

	subject := fmt.Sprintf("[Spec Request] %s - %s %s", sub.ProductID, sub.FirstName, sub.LastName)
	return ports.EmailMessage{
		To:       to,
		ReplyTo:  sub.Email,
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}

// -----------------------------------------------------------------------------
// Email Templates
// -----------------------------------------------------------------------------

var contactTmpl = template.Must(template.New("contact").Parse(strings.TrimSpace(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 8px; overflow: hidden; }
        .header { background: #38605f; color: white; padding: 30px; text-align: center; }
        .content { padding: 30px; }
        .section { margin-bottom: 25px; }
        .section-title { font-size: 12px; text-transform: uppercase; letter-spacing: 1px; color: #38605f; font-weight: 600; border-bottom: 2px solid #38605f; padding-bottom: 5px; margin-bottom: 12px; }
        .row { padding: 6px 0; border-bottom: 1px solid #f0f0f0; }
        .label { font-weight: 600; color: #666; }
        .message-box { background: #f9f9f9; border-left: 4px solid #38605f; padding: 15px; border-radius: 4px; white-space: pre-wrap; }
        .badge { display: inline-block; background: #e8f5e9; color: #2e7d32; padding: 4px 12px; border-radius: 12px; font-size: 12px; font-weight: 600; }
        .footer { background: #f9f9f9; padding: 20px 30px; text-align: center; font-size: 13px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Contact Form Submission</h1>
            <p>{{.SubmittedAt}}</p>
        </div>
        <div class="content">
            <div class="section">
                <div class="section-title">Contact Information</div>
                <div class="row"><span class="label">Name:</span> <strong>{{.FirstName}} {{.LastName}}</strong></div>
                <div class="row"><span class="label">Company:</span> {{.Company}}</div>
                <div class="row"><span class="label">Email:</span> <a href="mailto:{{.Email}}">{{.Email}}</a></div>
                <div class="row"><span class="label">Phone:</span> {{.Phone}}</div>
            </div>
            <div class="section">
                <div class="section-title">Location</div>
                <div class="row"><span class="label">Country:</span> {{.Country}}</div>
                <div class="row"><span class="label">City:</span> {{.City}}</div>
                <div class="row"><span class="label">Postal Code:</span> {{.PostalCode}}</div>
            </div>
            <div class="section">
                <div class="section-title">Inquiry Details</div>
                <div class="row"><span class="label">Topic:</span> <strong>{{.Topic}}</strong></div>
                <div class="message-box">{{.Message}}</div>
            </div>
            <div class="section">
                <div class="section-title">Security</div>
                <div class="row"><span class="label">IP Address:</span> {{.IP}}</div>
                <span class="badge">reCAPTCHA Verified</span>
            </div>
        </div>
        <div class="footer">
            <p><strong>Reply directly to this email to respond to {{.FirstName}}.</strong></p>
        </div>
    </div>
</body>
</html>
`)))

var specRequestTmpl = template.Must(template.New("specRequest").Parse(strings.TrimSpace(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 8px; overflow: hidden; }
        .header { background: #38605f; color: white; padding: 30px; text-align: center; }
        .content { padding: 30px; }
        .section { margin-bottom: 25px; }
        .section-title { font-size: 12px; text-transform: uppercase; letter-spacing: 1px; color: #38605f; font-weight: 600; border-bottom: 2px solid #38605f; padding-bottom: 5px; margin-bottom: 12px; }
        .row { padding: 6px 0; border-bottom: 1px solid #f0f0f0; }
        .label { font-weight: 600; color: #666; }
        .highlight-box { background: #f0f7f7; border-left: 4px solid #38605f; padding: 15px; border-radius: 4px; }
        .badge { display: inline-block; background: #e8f5e9; color: #2e7d32; padding: 4px 12px; border-radius: 12px; font-size: 12px; font-weight: 600; }
        .footer { background: #f9f9f9; padding: 20px 30px; text-align: center; font-size: 13px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Product Spec Request</h1>
            <p>{{.SubmittedAt}}</p>
        </div>
        <div class="content">
            <div class="section">
                <div class="section-title">Contact Information</div>
                <div class="row"><span class="label">Name:</span> <strong>{{.FirstName}} {{.LastName}}</strong></div>
                <div class="row"><span class="label">Email:</span> <a href="mailto:{{.Email}}">{{.Email}}</a></div>
                <div class="row"><span class="label">Company:</span> {{.Company}}</div>
                <div class="row"><span class="label">Country:</span> {{.Country}}</div>
                <div class="row"><span class="label">Phone:</span> {{.Phone}}</div>
            </div>
            <div class="section">
                <div class="section-title">Request Details</div>
                <div class="highlight-box">
                    <div>Product Requested:</div>
                    <div style="font-size: 18px; font-weight: 600; color: #38605f;">{{.ProductID}}</div>
                    <div style="font-size: 13px; color: #999;">Action: Spec Sheet Download</div>
                </div>
            </div>
            <div class="section">
                <div class="section-title">Security &amp; Metadata</div>
                <div class="row"><span class="label">IP Address:</span> {{.IP}}</div>
                <span class="badge">reCAPTCHA Verified</span>
            </div>
        </div>
        <div class="footer">
            <p><strong>This user has requested product specifications.</strong></p>
            <p>Reply directly to this email to follow up with {{.FirstName}}.</p>
        </div>
    </div>
</body>
</html>
`)))
