package api

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateContent(t *testing.T) {
	t.Run("short content untouched", func(t *testing.T) {
		got, truncated := truncateContent("hello", 10)
		if got != "hello" || truncated {
			t.Errorf("truncateContent() = (%q, %v), want (%q, false)", got, truncated, "hello")
		}
	})

	t.Run("exact length untouched", func(t *testing.T) {
		got, truncated := truncateContent("hello", 5)
		if got != "hello" || truncated {
			t.Errorf("truncateContent() = (%q, %v), want (%q, false)", got, truncated, "hello")
		}
	})

	t.Run("ascii cut at limit", func(t *testing.T) {
		got, truncated := truncateContent("hello world", 5)
		if got != "hello" || !truncated {
			t.Errorf("truncateContent() = (%q, %v), want (%q, true)", got, truncated, "hello")
		}
	})

	t.Run("multi-byte rune not split", func(t *testing.T) {
		// "é" is two bytes; a cut at 4 would land mid-rune
		content := "abc" + "é" + "def"
		got, truncated := truncateContent(content, 4)
		if !truncated {
			t.Fatal("truncateContent() did not report truncation")
		}
		if got != "abc" {
			t.Errorf("truncateContent() = %q, want %q", got, "abc")
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncateContent() produced invalid UTF-8: %q", got)
		}
	})

	t.Run("long multi-byte content stays valid", func(t *testing.T) {
		content := strings.Repeat("héllo wörld ", 500)
		got, truncated := truncateContent(content, 4096)
		if !truncated {
			t.Fatal("truncateContent() did not report truncation")
		}
		if len(got) > 4096 {
			t.Errorf("len = %d, want <= 4096", len(got))
		}
		if !utf8.ValidString(got) {
			t.Error("truncateContent() produced invalid UTF-8")
		}
	})
}
