package note

import (
	"net/url"
	"strings"
)

// componentFixer turns url.QueryEscape output into encodeURIComponent form,
// which is what the target application decodes.
var componentFixer = strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// EncodeComponent percent-encodes s for use as a single query value
func EncodeComponent(s string) string {
	return componentFixer.Replace(url.QueryEscape(s))
}

// BuildLocator makes the hand-off URI creating a new note in the given vault
func BuildLocator(scheme, vault, filename, content string) string {
	var sb strings.Builder
	sb.WriteString(scheme)
	sb.WriteString("://new?vault=")
	sb.WriteString(EncodeComponent(vault))
	sb.WriteString("&file=")
	sb.WriteString(EncodeComponent(filename))
	sb.WriteString("&content=")
	sb.WriteString(EncodeComponent(content))
	return sb.String()
}

// TestLocator makes a URI creating a small test note, used to check the vault name is right
func TestLocator(scheme, vault string) string {
	return scheme + "://new?vault=" + EncodeComponent(vault) + "&name=ConnectionTest&content=It%20Works!"
}
