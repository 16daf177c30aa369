package sanitize

import (
	"errors"
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"trims", "  padded  ", "padded"},
		{"strips_tags", "<script>alert(1)</script>hi", "hi"},
		{"strips_markup", "<b>bold</b> text", "bold text"},
		{"keeps_newline_and_tab", "a\tb\nc", "a\tb\nc"},
		{"drops_control_chars", "a\x00b\x07c", "abc"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(tt.in)
			if err != nil {
				t.Fatalf("Text(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextTooLong(t *testing.T) {
	_, err := Text(strings.Repeat("a", MaxInputLength+1))
	if !errors.Is(err, ErrTooLong) {
		t.Errorf("expected ErrTooLong, got %v", err)
	}

	if _, err := Text(strings.Repeat("a", MaxInputLength)); err != nil {
		t.Errorf("input at the limit should pass: %v", err)
	}
}

func TestURL(t *testing.T) {
	valid := []string{
		"https://example.com/docs",
		"http://example.com",
		"  https://example.com/trimmed  ",
	}
	for _, in := range valid {
		if _, err := URL(in); err != nil {
			t.Errorf("URL(%q): %v", in, err)
		}
	}

	invalid := []string{
		"javascript:alert(1)",
		"ftp://example.com/file",
		"not a url",
		"https://",
		"",
	}
	for _, in := range invalid {
		if _, err := URL(in); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("URL(%q) = %v, want ErrInvalidURL", in, err)
		}
	}
}
