package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNote = `---
title: "Spaced Repetition"
tags: [learning]
---

# Spaced Repetition

## Core Concept
Review at **increasing** intervals, see [the paper](https://example.com/paper).

- [[Memory]]
- [[Forgetting Curve]]

<script>alert("x")</script>
`

func TestHTMLRenderer_Render(t *testing.T) {
	r := NewHTMLRenderer()
	out, err := r.Render(sampleNote)
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, `<pre class="frontmatter">title: &#34;Spaced Repetition&#34;`)
	assert.Contains(t, s, `<h1 id="spaced-repetition">Spaced Repetition</h1>`)
	assert.Contains(t, s, "<strong>increasing</strong>")
	assert.Contains(t, s, `href="https://example.com/paper"`)
	assert.Contains(t, s, `target="_blank"`)
	assert.Contains(t, s, "[[Memory]]")
	assert.NotContains(t, s, "<script")
	assert.NotContains(t, s, "<hr", "frontmatter delimiters are not rendered as rules")
}

func TestHTMLRenderer_NoFrontmatter(t *testing.T) {
	r := NewHTMLRenderer()
	out, err := r.Render("plain *text* with [local](notes/a.md)")
	require.NoError(t, err)
	s := string(out)
	assert.NotContains(t, s, "frontmatter")
	assert.Contains(t, s, "<em>text</em>")
	assert.NotContains(t, s, `target="_blank"`)
}

func TestHTMLRenderer_Empty(t *testing.T) {
	out, err := NewHTMLRenderer().Render("")
	require.NoError(t, err)
	assert.Empty(t, string(out))
}

func TestTerminalRenderer_Render(t *testing.T) {
	r := NewTerminalRenderer("notty", 60)
	out, err := r.Render(sampleNote)
	require.NoError(t, err)
	assert.Contains(t, out, "Spaced Repetition")
	assert.Contains(t, out, "Core Concept")
	assert.Contains(t, out, "title:")
	assert.Contains(t, out, "increasing")

	// renderer is reused
	out2, err := r.Render("# Second")
	require.NoError(t, err)
	assert.Contains(t, out2, "Second")
}

func TestNewTerminalRenderer_Defaults(t *testing.T) {
	r := NewTerminalRenderer("", 0)
	assert.Equal(t, "auto", r.style)
	assert.Equal(t, 80, r.width)
}
