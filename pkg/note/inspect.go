package note

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// template parts every distilled note is expected to carry
var (
	requiredKeys     = []string{"title", "date", "tags", "status"}
	requiredSections = []string{"Core Concept", "Key Insights", "Detailed Explanation", "Connections"}
)

// Report describes how closely a document follows the note template.
// It is informational only, the document is never changed based on it.
type Report struct {
	Frontmatter     map[string]any `json:"frontmatter,omitempty"`
	FrontmatterErr  string         `json:"frontmatter_error,omitempty"`
	MissingKeys     []string       `json:"missing_keys,omitempty"`
	MissingSections []string       `json:"missing_sections,omitempty"`
	Fenced          bool           `json:"fenced,omitempty"`
}

// Inspect checks document structure against the note template
func Inspect(document string) Report {
	var rep Report
	trimmed := strings.TrimSpace(document)
	rep.Fenced = strings.HasPrefix(trimmed, "```")

	front, body, ok := SplitFrontmatter(trimmed)
	if !ok {
		rep.MissingKeys = append(rep.MissingKeys, requiredKeys...)
	} else {
		fm := map[string]any{}
		if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
			rep.FrontmatterErr = err.Error()
		}
		rep.Frontmatter = fm
		for _, k := range requiredKeys {
			if _, found := fm[k]; !found {
				rep.MissingKeys = append(rep.MissingKeys, k)
			}
		}
	}

	headers := map[string]bool{}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "## ") {
			headers[strings.TrimSpace(strings.TrimPrefix(line, "## "))] = true
		}
	}
	for _, s := range requiredSections {
		if !headers[s] {
			rep.MissingSections = append(rep.MissingSections, s)
		}
	}
	return rep
}

// OK reports whether the document fully follows the template
func (r Report) OK() bool {
	return r.FrontmatterErr == "" && len(r.MissingKeys) == 0 && len(r.MissingSections) == 0 && !r.Fenced
}

// Warnings returns human-readable problems found in the document
func (r Report) Warnings() []string {
	var res []string
	if r.Fenced {
		res = append(res, "note is wrapped in a code block")
	}
	if r.FrontmatterErr != "" {
		res = append(res, "frontmatter is not valid yaml: "+r.FrontmatterErr)
	}
	if len(r.MissingKeys) > 0 {
		res = append(res, fmt.Sprintf("frontmatter lacks %s", strings.Join(r.MissingKeys, ", ")))
	}
	if len(r.MissingSections) > 0 {
		res = append(res, fmt.Sprintf("missing sections: %s", strings.Join(r.MissingSections, ", ")))
	}
	return res
}

// SplitFrontmatter separates a leading "---" delimited yaml block from the rest of the document.
// ok is false if the document has no frontmatter, in which case body is the whole document.
func SplitFrontmatter(document string) (front, body string, ok bool) {
	doc := strings.ReplaceAll(document, "\r\n", "\n")
	if !strings.HasPrefix(doc, "---\n") {
		return "", doc, false
	}
	rest := doc[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", doc, false
	}
	front = rest[:end]
	body = strings.TrimPrefix(rest[end+len("\n---"):], "\n")
	return front, body, true
}
