package server

import (
	"html/template"
	"log"
	"net/http"

	"github.com/umputun/distiller/pkg/domain"
	"github.com/umputun/distiller/pkg/note"
)

type indexPage struct {
	Version  string
	Debug    bool
	Session  domain.Snapshot
	Preview  template.HTML
	Warnings []string
	Settings settingsResponse
}

// indexHandler renders the single page UI with the current session
func (s *Server) indexHandler(w http.ResponseWriter, _ *http.Request) {
	snap := s.session.Snapshot()
	data := indexPage{
		Version:  s.version,
		Debug:    s.debug,
		Session:  snap,
		Settings: s.settingsView(),
	}
	if snap.Document != "" {
		preview, err := s.renderer.Render(snap.Document)
		if err != nil {
			log.Printf("[WARN] failed to render preview: %v", err)
		}
		data.Preview = preview
		data.Warnings = note.Inspect(snap.Document).Warnings()
	}

	if err := s.renderPage(w, "index.html", data); err != nil {
		log.Printf("[ERROR] failed to render page: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.templates.ExecuteTemplate(w, name, data)
}
