package form

import (
	"regexp"
	"strings"
)

// SpamKeywords are rejected anywhere in a message body, case-insensitively.
var SpamKeywords = []string{
	"viagra",
	"casino",
	"lottery",
	"click here",
	"buy now",
	"limited time",
	"act now",
	"free money",
}

// MaxMessageURLs is how many links a legitimate message may carry.
const MaxMessageURLs = 2

var urlRe = regexp.MustCompile(`(?i)https?://`)

// FindSpamKeyword returns the first configured keyword found in the message,
// or "" when the message is clean.
func FindSpamKeyword(message string) string {
	lower := strings.ToLower(message)
	for _, kw := range SpamKeywords {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return ""
}

// URLCount counts http:// and https:// occurrences in the message.
func URLCount(message string) int {
	return len(urlRe.FindAllStringIndex(message, -1))
}

// CheckMessage applies the spam heuristics to a message body and returns a
// user-facing problem, or "" when the message passes.
func CheckMessage(message string) string {
	if FindSpamKeyword(message) != "" {
		return "Invalid content detected"
	}
	if URLCount(message) > MaxMessageURLs {
		return "Too many links in message"
	}
	return ""
}
