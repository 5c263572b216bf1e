package source

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

const feedAccept = "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5"

// Entry is a single feed item usable as raw input
type Entry struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published,omitempty"`
	Text      string    `json:"text"`
}

// RawInput formats the entry as source text for distillation
func (e Entry) RawInput() string {
	return Article{URL: e.Link, Title: e.Title, Text: e.Text}.RawInput()
}

// FeedReader reads RSS/Atom feeds
type FeedReader struct {
	client    *http.Client
	userAgent string
	strip     *bluemonday.Policy
}

// NewFeedReader makes feed reader
func NewFeedReader(timeout time.Duration, userAgent string) *FeedReader {
	return &FeedReader{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
		strip:     bluemonday.StrictPolicy(),
	}
}

// Entries fetches the feed and returns up to limit entries in feed order.
// Entry text is the full content if present, otherwise the description, with markup removed.
func (r *FeedReader) Entries(ctx context.Context, feedURL string, limit int) ([]Entry, error) {
	u, err := parseHTTPURL(feedURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	setRequestHeaders(req, r.userAgent, feedAccept)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for feed %s", resp.StatusCode, feedURL)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	res := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if limit > 0 && len(res) >= limit {
			break
		}
		entry := Entry{Title: strings.TrimSpace(item.Title), Link: item.Link}
		if item.PublishedParsed != nil {
			entry.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.Published = *item.UpdatedParsed
		}
		body := item.Content
		if strings.TrimSpace(body) == "" {
			body = item.Description
		}
		entry.Text = r.plainText(body)
		res = append(res, entry)
	}
	return res, nil
}

// plainText removes markup and collapses blank lines
func (r *FeedReader) plainText(s string) string {
	// block-level closing tags become line breaks before stripping
	s = strings.NewReplacer("</p>", "</p>\n", "<br>", "\n", "<br/>", "\n", "<br />", "\n", "</li>", "</li>\n").Replace(s)
	s = html.UnescapeString(r.strip.Sanitize(s))
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
