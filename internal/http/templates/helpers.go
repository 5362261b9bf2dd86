package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
)

// RawHTML returns a templ component that writes the provided HTML without escaping.
func RawHTML(markup string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := io.WriteString(w, markup)
		return err
	})
}

// PlainText strips markup from an HTML fragment, collapsing whitespace.
// Used for the content previews in the posts table.
func PlainText(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	var builder strings.Builder
	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			break
		}
		if tokenType == html.TextToken {
			builder.Write(tokenizer.Text())
			builder.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(builder.String()), " ")
}

// Truncate shortens text to at most limit runes, appending an ellipsis
// when anything was cut.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return strings.TrimSpace(string(runes[:limit])) + "…"
}
