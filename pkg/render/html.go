// Package render turns generated Markdown notes into sanitized HTML for the web UI
// and ANSI text for the terminal.
package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/umputun/distiller/pkg/note"
)

// HTMLRenderer renders note documents to HTML safe for embedding into the page
type HTMLRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTMLRenderer makes renderer with GFM extensions and UGC sanitizing policy
func NewHTMLRenderer() *HTMLRenderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("pre", "code", "div")
	policy.AllowAttrs("target").Matching(bluemonday.Paragraph).OnElements("a")
	policy.RequireNoReferrerOnLinks(true)

	return &HTMLRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, &externalLinks{}),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		policy: policy,
	}
}

// Render converts document to HTML. Frontmatter is shown verbatim in a separate block
// and is not parsed as Markdown.
func (r *HTMLRenderer) Render(document string) (template.HTML, error) {
	var buf bytes.Buffer
	body := document
	if front, rest, ok := note.SplitFrontmatter(document); ok {
		buf.WriteString(`<pre class="frontmatter">`)
		buf.WriteString(html.EscapeString(strings.TrimSpace(front)))
		buf.WriteString("</pre>\n")
		body = rest
	}
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized by bluemonday
}

// externalLinks marks absolute links to open in a new tab
type externalLinks struct{}

func (e *externalLinks) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(&externalLinksTransformer{}, 100)))
}

type externalLinksTransformer struct{}

func (t *externalLinksTransformer) Transform(node *ast.Document, reader text.Reader, _ parser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch link := n.(type) {
		case *ast.Link:
			if isExternal(link.Destination) {
				link.SetAttributeString("target", []byte("_blank"))
			}
		case *ast.AutoLink:
			if link.AutoLinkType == ast.AutoLinkURL && isExternal(link.URL(reader.Source())) {
				link.SetAttributeString("target", []byte("_blank"))
			}
		}
		return ast.WalkContinue, nil
	})
}

func isExternal(dest []byte) bool {
	s := strings.ToLower(strings.TrimSpace(string(dest)))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
