// Package richtext converts Coda canvas and rich-text cell content
// into sanitized HTML for formatted-text destination fields. The
// content arrives as markdown; it is rendered to HTML with goldmark
// and then filtered against a fixed allow-list with bluemonday.
package richtext

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/jimbaxley/codaframer/internal/logger"
)

var (
	// md renders markdown including GFM tables, which Coda canvases
	// use heavily. Raw HTML passes through here and is filtered by
	// the sanitizer policy below.
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	policy = buildPolicy()
)

// buildPolicy constructs the allow-list: structural and inline tags
// the destination's formatted-text renderer understands, nothing else.
func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr",
		"ul", "ol", "li",
		"table", "thead", "tbody", "tr", "th", "td",
		"em", "strong", "i", "b", "u", "s",
		"blockquote", "code", "pre",
		"a", "img",
	)

	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowAttrs("style").Globally()

	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(false)

	return p
}

// ToHTML converts markdown content to sanitized HTML.
// Conversion failures degrade to sanitizing the input as-is rather
// than dropping the value.
func ToHTML(markdown string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		logger.Warn("markdown conversion failed: %v", err)
		return policy.Sanitize(markdown)
	}
	return policy.Sanitize(buf.String())
}
