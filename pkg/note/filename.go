// Package note holds pure helpers over generated Markdown notes: filename derivation,
// hand-off locator construction and structural inspection.
package note

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// yaml title key with optionally quoted value on the same line
	titleRe = regexp.MustCompile(`title:[ \t]*["']?([^"'\n]+)["']?`)
	// first level-1 heading
	headingRe = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
	// characters invalid in common filesystem names
	invalidCharsRe = regexp.MustCompile(`[\\/:*?"<>|]`)
	// whitespace runs, unicode spaces (nbsp and friends) and line separators included
	spacesRe = regexp.MustCompile(`[\s\p{Zs}\x{FEFF}\x{2028}\x{2029}]+`)
)

// DeriveFilename picks a filesystem-safe name for the document.
// Frontmatter title wins over the first H1, and both fall back to a dated name.
func DeriveFilename(document string, now time.Time) string {
	name := Sanitize(extractTitle(document, now))
	if name == "" {
		return "Untitled Note " + strconv.FormatInt(now.UnixMilli(), 10)
	}
	return name
}

// Sanitize replaces characters invalid in file names with spaces and collapses whitespace
func Sanitize(name string) string {
	name = invalidCharsRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(name, " "))
}

func extractTitle(md string, now time.Time) string {
	if m := titleRe.FindStringSubmatch(md); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	if m := headingRe.FindStringSubmatch(md); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	return "Note " + now.UTC().Format("2006-01-02")
}
