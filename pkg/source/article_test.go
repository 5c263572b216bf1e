package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Spaced Repetition Explained</title></head>
<body>
	<nav><a href="/">Home</a></nav>
	<article>
		<h1>Spaced Repetition Explained</h1>
		<p>Spaced repetition is a learning technique where reviews of material are scheduled at increasing intervals.</p>
		<p>It exploits the spacing effect, first described by Hermann Ebbinghaus in his work on the forgetting curve.</p>
	</article>
</body>
</html>`

func TestArticleExtractor_Extract(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	e := NewArticleExtractor(5*time.Second, "Distiller/1.0", 20)
	art, err := e.Extract(context.Background(), srv.URL+"/post")
	require.NoError(t, err)

	assert.Equal(t, "Distiller/1.0", gotUA)
	assert.Contains(t, art.Text, "spacing effect")
	assert.Equal(t, srv.URL+"/post", art.URL)

	raw := art.RawInput()
	assert.Contains(t, raw, "spacing effect")
	assert.True(t, strings.HasSuffix(raw, "Source: "+srv.URL+"/post"))
}

func TestArticleExtractor_Charset(t *testing.T) {
	// "café" in ISO-8859-1
	page := []byte("<html><body><article><p>Le caf\xe9 est une boisson pr\xe9par\xe9e \xe0 partir des graines torr\xe9fi\xe9es du caf\xe9ier.</p></article></body></html>")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	art, err := NewArticleExtractor(5*time.Second, "test", 10).Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, art.Text, "café")
}

func TestArticleExtractor_Errors(t *testing.T) {
	tbl := []struct {
		name   string
		status int
		body   string
		minLen int
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "error"},
		{name: "not found", status: http.StatusNotFound, body: "not found"},
		{name: "too short", status: http.StatusOK, body: "<html><body><p>Short content</p></body></html>", minLen: 500},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewArticleExtractor(5*time.Second, "test", tt.minLen).Extract(context.Background(), srv.URL)
			require.Error(t, err)
		})
	}
}

func TestArticleExtractor_InvalidURL(t *testing.T) {
	e := NewArticleExtractor(time.Second, "test", 0)
	for _, u := range []string{"", "not a url", "ftp://example.com/file", "http://"} {
		_, err := e.Extract(context.Background(), u)
		require.Error(t, err, u)
		assert.Contains(t, err.Error(), "URL", u)
	}
}

func TestArticleExtractor_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewArticleExtractor(5*time.Second, "test", 0).Extract(ctx, srv.URL)
	require.Error(t, err)
}

func TestArticle_RawInput(t *testing.T) {
	assert.Equal(t, "Title\n\nBody\n\nSource: https://e.com", Article{URL: "https://e.com", Title: "Title", Text: "Body"}.RawInput())
	assert.Equal(t, "Body", Article{Text: "Body"}.RawInput())
}
