// Package render turns note content into HTML.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/aretw0/jot/pkg/core"
)

// Raw HTML in content is omitted: goldmark renders unsafe HTML only on request.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Markdown renders content as an HTML fragment.
func Markdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Note renders a note as an <article> with its title, metadata and body.
func Note(n core.Note) (string, error) {
	body, err := Markdown(n.Content)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<article id=\"%s\">\n", html.EscapeString(n.ID))
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(n.Title))
	fmt.Fprintf(&b, "<p class=\"meta\">%s · %s · updated %s</p>\n",
		html.EscapeString(string(n.Category)),
		html.EscapeString(n.CreatorName),
		n.UpdatedAt.UTC().Format("2006-01-02 15:04"))
	if len(n.Tags) > 0 {
		b.WriteString("<ul class=\"tags\">")
		for _, tag := range n.Tags {
			fmt.Fprintf(&b, "<li>#%s</li>", html.EscapeString(tag))
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString(body)
	b.WriteString("</article>\n")
	return b.String(), nil
}
