// Package textproc cleans free text and extracts frequency-ranked keywords from it.
package textproc

import (
	"regexp"
	"strings"
)

var (
	urlPattern     = regexp.MustCompile(`http\S+|www\S+`)
	emailPattern   = regexp.MustCompile(`\S+@\S+`)
	phonePattern   = regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	nonWordPattern = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// Normalize lowercases the text, strips URLs, emails and phone numbers, replaces
// punctuation with spaces and collapses whitespace.
//
// Removed spans become a single space so neighbouring words never merge. The
// steps are repeated until the output stops changing: punctuation replacement
// can expose a phone-like digit run that only the next pass removes.
func Normalize(text string) string {
	out := clean(text)
	for {
		next := clean(out)
		if next == out {
			return out
		}
		out = next
	}
}

func clean(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, " ")
	text = emailPattern.ReplaceAllString(text, " ")
	text = phonePattern.ReplaceAllString(text, " ")
	text = nonWordPattern.ReplaceAllString(text, " ")

	return strings.Join(strings.Fields(text), " ")
}
