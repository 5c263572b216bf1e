// Package server provides the web UI and JSON API driving the note session.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/distiller/pkg/domain"
	"github.com/umputun/distiller/pkg/source"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/importer.go -pkg mocks -skip-ensure -fmt goimports . Importer

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents HTTP server instance
type Server struct {
	config   ConfigProvider
	session  Session
	settings SettingsStore
	importer Importer
	renderer Renderer
	version  string
	debug    bool

	pageOpensLocator bool

	lock       sync.Mutex
	httpServer *http.Server
	baseCtx    context.Context
	router     *routegroup.Bundle
	templates  *template.Template
}

// Session is the note lifecycle controller
type Session interface {
	StartGeneration(ctx context.Context, rawInput string) error
	StartRefinement(ctx context.Context, instruction string) error
	EditDocument(text string) error
	SetRawInput(text string) error
	ApproveAndHandOff() (domain.HandOff, error)
	Reset() error
	Snapshot() domain.Snapshot
}

// SettingsStore keeps user settings
type SettingsStore interface {
	Get() domain.Settings
	VaultName() string
	APIKey() string
	HasStoredAPIKey() bool
	SetVaultName(ctx context.Context, name string) error
	SetAPIKey(ctx context.Context, key string) error
	SetDefaultTags(tags string)
}

// Importer fetches raw input from the web
type Importer interface {
	Extract(ctx context.Context, rawURL string) (source.Article, error)
	Entries(ctx context.Context, feedURL string, limit int) ([]source.Entry, error)
}

// Renderer converts note documents to safe HTML
type Renderer interface {
	Render(document string) (template.HTML, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetHandOffScheme() string
	GetFeedLimit() int
}

// Deps are the collaborators the server drives
type Deps struct {
	Session  Session
	Settings SettingsStore
	Importer Importer
	Renderer Renderer

	// PageOpensLocator is set when the session launcher doesn't deliver notes itself (log launcher),
	// the page then navigates to the returned locator. Exactly one of them opens it.
	PageOpensLocator bool
}

// New initializes a new server instance
func New(cfg ConfigProvider, deps Deps, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		session:   deps.Session,
		settings:  deps.Settings,
		importer:  deps.Importer,
		renderer:  deps.Renderer,
		version:   version,
		debug:     debug,
		baseCtx:   context.Background(),
		router:    routegroup.New(http.NewServeMux()),
		templates: template.Must(template.ParseFS(templatesFS, "templates/*.html")),

		pageOpensLocator: deps.PageOpensLocator,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown.
// Generation requests run on ctx rather than the request context, a client disconnect
// doesn't abandon an outstanding request, only shutdown does.
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.baseCtx = ctx
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("distiller", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(4 * 1024 * 1024)) // raw inputs can be long articles
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.indexHandler)

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)

		r.HandleFunc("GET /session", s.sessionHandler)
		r.HandleFunc("POST /session/generate", s.generateHandler)
		r.HandleFunc("POST /session/refine", s.refineHandler)
		r.HandleFunc("PUT /session/document", s.editDocumentHandler)
		r.HandleFunc("PUT /session/raw", s.rawInputHandler)
		r.HandleFunc("POST /session/handoff", s.handOffHandler)
		r.HandleFunc("POST /session/reset", s.resetHandler)

		r.HandleFunc("GET /preview", s.previewHandler)

		r.HandleFunc("POST /import/url", s.importURLHandler)
		r.HandleFunc("POST /import/feed", s.importFeedHandler)

		r.HandleFunc("GET /settings", s.getSettingsHandler)
		r.HandleFunc("PUT /settings", s.updateSettingsHandler)
		r.HandleFunc("GET /settings/test-locator", s.testLocatorHandler)
	})
}

// requestContext returns the context outstanding requests run on
func (s *Server) requestContext() context.Context {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.baseCtx
}
