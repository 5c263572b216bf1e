// Package source imports raw input text from the web: readable article text from pages
// and entries from RSS/Atom feeds.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html/charset"
)

// ErrTooShort is returned when extracted text is below the configured minimum
var ErrTooShort = errors.New("extracted text is too short")

const htmlAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// Article is the readable part of a web page
type Article struct {
	URL   string
	Title string
	Text  string
}

// RawInput formats the article as source text for distillation
func (a Article) RawInput() string {
	var sb strings.Builder
	if a.Title != "" {
		sb.WriteString(a.Title)
		sb.WriteString("\n\n")
	}
	sb.WriteString(a.Text)
	if a.URL != "" {
		sb.WriteString("\n\nSource: ")
		sb.WriteString(a.URL)
	}
	return sb.String()
}

// ArticleExtractor fetches pages and extracts the main text with trafilatura
type ArticleExtractor struct {
	client    *http.Client
	userAgent string
	minLength int
}

// NewArticleExtractor makes extractor. minLength is the minimal accepted text length in characters.
func NewArticleExtractor(timeout time.Duration, userAgent string, minLength int) *ArticleExtractor {
	return &ArticleExtractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		minLength: minLength,
	}
}

// Extract retrieves the page at urlStr and returns its readable content
func (e *ArticleExtractor) Extract(ctx context.Context, urlStr string) (Article, error) {
	parsedURL, err := parseHTTPURL(urlStr)
	if err != nil {
		return Article{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), http.NoBody)
	if err != nil {
		return Article{}, fmt.Errorf("create request: %w", err)
	}
	setRequestHeaders(req, e.userAgent, htmlAccept)

	resp, err := e.client.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("fetch URL %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Article{}, fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, urlStr)
	}

	// trafilatura expects utf-8, pages in legacy encodings are converted first
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return Article{}, fmt.Errorf("detect charset for %s: %w", urlStr, err)
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	}
	result, err := trafilatura.Extract(body, opts)
	if err != nil {
		return Article{}, fmt.Errorf("extract content from %s: %w", urlStr, err)
	}
	if result == nil {
		return Article{}, fmt.Errorf("no content extracted from %s", urlStr)
	}

	text := strings.TrimSpace(result.ContentText)
	if text == "" {
		return Article{}, fmt.Errorf("no text content extracted from %s", urlStr)
	}
	if len([]rune(text)) < e.minLength {
		return Article{}, fmt.Errorf("%s: %w (%d < %d)", urlStr, ErrTooShort, len([]rune(text)), e.minLength)
	}

	return Article{URL: urlStr, Title: strings.TrimSpace(result.Metadata.Title), Text: text}, nil
}

func parseHTTPURL(urlStr string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid URL: %q", urlStr)
	}
	return u, nil
}
