package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/distiller/pkg/render"
	"github.com/umputun/distiller/pkg/session"
	smocks "github.com/umputun/distiller/pkg/session/mocks"
	"github.com/umputun/distiller/pkg/settings"
	"github.com/umputun/distiller/server/mocks"
)

type testEnv struct {
	srv      *Server
	gen      *smocks.GeneratorMock
	launcher *smocks.LauncherMock
	store    *settings.Store
	importer *mocks.ImporterMock
	ctrl     *session.Controller
}

func newTestConfig(listen string) *mocks.ConfigProviderMock {
	return &mocks.ConfigProviderMock{
		GetServerConfigFunc:  func() (string, time.Duration) { return listen, 30 * time.Second },
		GetHandOffSchemeFunc: func() string { return "obsidian" },
		GetFeedLimitFunc:     func() int { return 5 },
	}
}

func setupTestServer(t *testing.T, apiKey string) *testEnv {
	t.Helper()
	store, err := settings.Load(context.Background(), settings.NewMemoryBackend(), apiKey)
	require.NoError(t, err)

	env := &testEnv{
		gen: &smocks.GeneratorMock{
			DistillFunc: func(_ context.Context, _, text string) (string, error) {
				return "---\ntitle: \"" + text + "\"\n---\n# " + text + "\n", nil
			},
			RefineFunc: func(_ context.Context, _, doc, instr string) (string, error) {
				return doc + "\n" + instr + "\n", nil
			},
		},
		launcher: &smocks.LauncherMock{OpenFunc: func(string) {}},
		store:    store,
		importer: &mocks.ImporterMock{},
	}
	env.ctrl = session.NewController(env.gen, env.launcher, store)
	env.srv = New(newTestConfig(":8080"), Deps{
		Session:  env.ctrl,
		Settings: store,
		Importer: env.importer,
		Renderer: render.NewHTMLRenderer(),
	}, "1.2.3", false)
	return env
}

// do sends request through the full router, middleware included
func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.srv.router.ServeHTTP(w, req)
	return w
}

func TestServer_New(t *testing.T) {
	env := setupTestServer(t, "")
	assert.NotNil(t, env.srv)
	assert.Equal(t, "1.2.3", env.srv.version)
	assert.False(t, env.srv.debug)
	assert.NotNil(t, env.srv.templates.Lookup("index.html"))
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	store, err := settings.Load(context.Background(), settings.NewMemoryBackend(), "")
	require.NoError(t, err)
	srv := New(newTestConfig(fmt.Sprintf("127.0.0.1:%d", port)), Deps{
		Session:  session.NewController(&smocks.GeneratorMock{}, &smocks.LauncherMock{}, store),
		Settings: store,
		Importer: &mocks.ImporterMock{},
		Renderer: render.NewHTMLRenderer(),
	}, "1.0.0", true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// wait for server to start
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
	assert.Equal(t, "distiller", resp.Header.Get("App-Name"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_IndexPage(t *testing.T) {
	env := setupTestServer(t, "key")

	w := env.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "<title>Distiller</title>")
	assert.Contains(t, body, `value="My Vault"`)
	assert.Contains(t, body, "configured (environment)")

	require.NoError(t, env.ctrl.StartGeneration(context.Background(), "Graph <Theory>"))
	w = env.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "Graph &lt;Theory&gt;", "raw input escaped in textarea")
	assert.Contains(t, body, "missing sections", "inspection warnings shown")
	assert.NotContains(t, body, "<Theory>")

	w = env.do(t, http.MethodGet, "/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
