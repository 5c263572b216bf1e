package note

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "quoted yaml title with reserved chars",
			doc:  "---\ntitle: \"Project: Alpha/Beta\"\ndate: 2026-03-14\n---\n\n# Something else\n",
			want: "Project Alpha Beta",
		},
		{
			name: "single quoted yaml title",
			doc:  "---\ntitle: 'Spaced   Repetition'\n---\n",
			want: "Spaced Repetition",
		},
		{
			name: "unquoted yaml title",
			doc:  "---\ntitle: Feynman Technique \ntags: [learning]\n---\n",
			want: "Feynman Technique",
		},
		{
			name: "h1 only",
			doc:  "Some intro\n\n# My Great Idea\n\nbody",
			want: "My Great Idea",
		},
		{
			name: "h2 is not a title",
			doc:  "## Not This\n\ntext",
			want: "Note 2026-03-14",
		},
		{
			name: "no title and no heading",
			doc:  "just some text without structure",
			want: "Note 2026-03-14",
		},
		{
			name: "title made of invalid chars only",
			doc:  "title: ***???\n",
			want: "Untitled Note " + "1773480413000",
		},
		{
			name: "heading with all invalid chars",
			doc:  "# <>|\n",
			want: "Untitled Note 1773480413000",
		},
		{
			name: "crlf heading",
			doc:  "# Windows Title\r\nbody",
			want: "Windows Title",
		},
		{
			name: "yaml title wins over heading",
			doc:  "# Heading\n---\ntitle: Frontmatter\n---",
			want: "Frontmatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveFilename(tt.doc, now))
		})
	}
}

func TestDeriveFilename_Deterministic(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	doc := "---\ntitle: \"a:b\\c*d?e\\\"f<g>h|i\"\n---\n"
	first := DeriveFilename(doc, now)
	second := DeriveFilename(doc, now)
	assert.Equal(t, first, second)
	assert.False(t, strings.ContainsAny(first, `\/:*?"<>|`), first)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "Project: Alpha/Beta", want: "Project Alpha Beta"},
		{in: `a\b`, want: "a b"},
		{in: "  lots   of\tspace\n", want: "lots of space"},
		{in: `"quoted"`, want: "quoted"},
		{in: "<>:|?*", want: ""},
		{in: "Plain", want: "Plain"},
		{in: "Non\u00a0\u00a0breaking\u2003space", want: "Non breaking space"},
		{in: "\ufeffLeading bom\u2028x", want: "Leading bom x"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestDeriveFilename_FallbackDateInUTC(t *testing.T) {
	// 23:30 on Oct 18 in UTC-5 is already Oct 19 in UTC
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.FixedZone("EST", -5*60*60))
	assert.Equal(t, "Note 2026-10-19", DeriveFilename("no title here", now))
}
