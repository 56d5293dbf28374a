package form

import "testing"

func TestFindSpamKeyword_CaseInsensitive(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"Please send pricing for the MARV2X line.", ""},
		{"BUY NOW and save big", "buy now"},
		{"limited Time offer inside", "limited time"},
		{"our casino has free money", "casino"},
	}

	for _, tc := range cases {
		if got := FindSpamKeyword(tc.message); got != tc.want {
			t.Errorf("FindSpamKeyword(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestURLCount(t *testing.T) {
	cases := []struct {
		message string
		want    int
	}{
		{"no links here", 0},
		{"see http://a.example and https://b.example", 2},
		{"HTTP://a HTTPS://b https://c", 3},
	}

	for _, tc := range cases {
		if got := URLCount(tc.message); got != tc.want {
			t.Errorf("URLCount(%q) = %d, want %d", tc.message, got, tc.want)
		}
	}
}

func TestCheckMessage_URLBoundary(t *testing.T) {
	two := "links: https://a.example https://b.example plus padding text"
	if msg := CheckMessage(two); msg != "" {
		t.Errorf("two URLs should pass, got %q", msg)
	}

	three := "links: https://a.example https://b.example http://c.example"
	if msg := CheckMessage(three); msg != "Too many links in message" {
		t.Errorf("three URLs: got %q", msg)
	}
}

func TestCheckMessage_Spam(t *testing.T) {
	if msg := CheckMessage("act now to claim your prize"); msg != "Invalid content detected" {
		t.Errorf("spam keyword: got %q", msg)
	}
}
