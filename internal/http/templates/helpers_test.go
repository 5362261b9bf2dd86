package templates

import "testing"

func TestPlainTextStripsMarkup(t *testing.T) {
	t.Parallel()

	got := PlainText("<h1>Title</h1><p>Some <strong>bold</strong> text.</p>")
	want := "Title Some bold text."

	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPlainTextCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	got := PlainText("<p>line\n\none</p>\n<p>  line   two </p>")
	want := "line one line two"

	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestTruncateLeavesShortTextAlone(t *testing.T) {
	t.Parallel()

	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("expected untouched text, got %q", got)
	}
}

func TestTruncateCutsOnRuneBoundary(t *testing.T) {
	t.Parallel()

	got := Truncate("héllo wörld", 5)
	if got != "héllo…" {
		t.Fatalf("expected rune-safe cut, got %q", got)
	}
}

func TestTruncateZeroLimitReturnsEmpty(t *testing.T) {
	t.Parallel()

	if got := Truncate("anything", 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
