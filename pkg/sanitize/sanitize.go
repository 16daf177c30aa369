// Package sanitize is the single validate/sanitize-text capability consumed
// by pages that accept user input and by the demo backend.
package sanitize

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// MaxInputLength bounds any single text input.
const MaxInputLength = 10_000

var (
	// ErrTooLong is returned when input exceeds MaxInputLength.
	ErrTooLong = errors.New("input exceeds maximum length")
	// ErrInvalidURL is returned for URLs that are unparseable or use a
	// disallowed scheme.
	ErrInvalidURL = errors.New("invalid url")
)

// strict strips all markup; tutorial inputs are plain text.
var strict = bluemonday.StrictPolicy()

// Text sanitizes free-form text input: enforces the length bound, strips
// any markup, drops control characters other than tab and newline, and
// trims surrounding whitespace.
func Text(s string) (string, error) {
	if len(s) > MaxInputLength {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrTooLong, len(s), MaxInputLength)
	}

	cleaned := strict.Sanitize(s)
	cleaned = strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, cleaned)

	return strings.TrimSpace(cleaned), nil
}

// URL validates an external link, allowing only absolute http(s) URLs.
func URL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q not allowed", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u.String(), nil
}
