package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/umputun/distiller/pkg/note"
)

// TerminalRenderer renders note documents with ANSI styling for CLI output
type TerminalRenderer struct {
	style string
	width int

	once sync.Once
	r    *glamour.TermRenderer
	err  error
}

// NewTerminalRenderer makes renderer for the given glamour style ("auto", "dark", "light", "notty")
// and word wrap width, zero width means 80 columns
func NewTerminalRenderer(style string, width int) *TerminalRenderer {
	if style == "" {
		style = "auto"
	}
	if width <= 0 {
		width = 80
	}
	return &TerminalRenderer{style: style, width: width}
}

// Render returns document styled for the terminal
func (t *TerminalRenderer) Render(document string) (string, error) {
	t.once.Do(func() {
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(t.width)}
		if t.style == "auto" {
			opts = append(opts, glamour.WithAutoStyle())
		} else {
			opts = append(opts, glamour.WithStandardStyle(t.style))
		}
		t.r, t.err = glamour.NewTermRenderer(opts...)
	})
	if t.err != nil {
		return "", fmt.Errorf("make terminal renderer: %w", t.err)
	}

	// frontmatter would otherwise be parsed as a setext heading
	if front, body, ok := note.SplitFrontmatter(document); ok {
		document = "```yaml\n" + strings.TrimSpace(front) + "\n```\n" + body
	}
	out, err := t.r.Render(document)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
