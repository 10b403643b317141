package utils

import (
	"regexp"
	"strings"
)

// Contact-detail patterns hidden from locked threads. Deliberately broad: a
// false positive costs a little readability, a false negative leaks a way to
// transact off-platform before payment.
var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	urlPattern   = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"]+`)
	// A leading house number followed by a street-type word.
	addressPattern = regexp.MustCompile(`(?i)\b\d{1,5}\s+(?:[A-Za-z]+\s+){0,3}(?:street|st|road|rd|avenue|ave|lane|ln|drive|dr|close|court|ct|crescent|place|pl|way|terrace|gardens)\b\.?`)
	// 7+ digits allowing spaces, dashes, dots and parentheses between them.
	phonePattern = regexp.MustCompile(`(?:\+?\d[\s\-.()]*){6,}\d`)
)

const (
	emailPlaceholder   = "[email hidden until payment]"
	urlPlaceholder     = "[link hidden until payment]"
	addressPlaceholder = "[address hidden until payment]"
	phonePlaceholder   = "[phone hidden until payment]"
)

// RedactContactDetails masks email-, URL-, address- and phone-shaped
// substrings in free text. Total: any input returns a string, never panics.
// Emails and URLs are replaced before phone runs so their digits cannot
// produce double placeholders.
func RedactContactDetails(text string) string {
	if text == "" {
		return text
	}
	out := emailPattern.ReplaceAllString(text, emailPlaceholder)
	out = urlPattern.ReplaceAllString(out, urlPlaceholder)
	out = addressPattern.ReplaceAllString(out, addressPlaceholder)
	out = phonePattern.ReplaceAllString(out, phonePlaceholder)
	return out
}

// MaskEmail reveals only the first character and the domain, e.g.
// "john@doe.com" -> "j******@doe.com". Used for participant display while a
// thread is locked.
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "******"
	}
	return email[:1] + "******@" + email[at+1:]
}
