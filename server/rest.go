package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/rest"

	"github.com/umputun/distiller/pkg/domain"
	"github.com/umputun/distiller/pkg/note"
	"github.com/umputun/distiller/pkg/session"
)

type rawInputRequest struct {
	RawInput string `json:"raw_input"`
}

type instructionRequest struct {
	Instruction string `json:"instruction"`
}

type documentRequest struct {
	Document string `json:"document"`
}

type importRequest struct {
	URL   string `json:"url"`
	Index *int   `json:"index,omitempty"`
}

type settingsRequest struct {
	VaultName   *string `json:"vault_name,omitempty"`
	APIKey      *string `json:"api_key,omitempty"`
	DefaultTags *string `json:"default_tags,omitempty"`
}

// settingsResponse never carries the key itself
type settingsResponse struct {
	VaultName    string `json:"vault_name"`
	DefaultTags  string `json:"default_tags"`
	APIKeySet    bool   `json:"api_key_set"`
	APIKeySource string `json:"api_key_source,omitempty"`
}

// handOffResponse tells the page whether it should navigate to the locator itself
type handOffResponse struct {
	domain.HandOff
	OpenInPage bool `json:"open_in_page"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := rest.JSON{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"session": s.session.Snapshot().Status,
		"handoff": s.handOffOpener(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

func (s *Server) handOffOpener() string {
	if s.pageOpensLocator {
		return "page"
	}
	return "server"
}

// sessionHandler returns the session snapshot
func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.session.Snapshot())
}

// generateHandler distills raw input into a note, the response is sent when generation completes
func (s *Server) generateHandler(w http.ResponseWriter, r *http.Request) {
	var req rawInputRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.session.StartGeneration(s.requestContext(), req.RawInput); err != nil {
		s.renderSessionError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, s.session.Snapshot())
}

// refineHandler rewrites the current note following the instruction
func (s *Server) refineHandler(w http.ResponseWriter, r *http.Request) {
	var req instructionRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.session.StartRefinement(s.requestContext(), req.Instruction); err != nil {
		s.renderSessionError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, s.session.Snapshot())
}

// editDocumentHandler replaces the document with user-edited text
func (s *Server) editDocumentHandler(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.session.EditDocument(req.Document); err != nil {
		s.renderSessionError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, s.session.Snapshot())
}

// rawInputHandler updates raw input without generating
func (s *Server) rawInputHandler(w http.ResponseWriter, r *http.Request) {
	var req rawInputRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.session.SetRawInput(req.RawInput); err != nil {
		s.renderSessionError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, s.session.Snapshot())
}

// handOffHandler approves the note. The page opens the returned locator itself,
// the server-side launcher covers local installs.
func (s *Server) handOffHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.ApproveAndHandOff()
	if err != nil {
		s.renderSessionError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, handOffResponse{HandOff: res, OpenInPage: s.pageOpensLocator})
}

// resetHandler starts a new note
func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reset(); err != nil {
		s.renderSessionError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, s.session.Snapshot())
}

// previewHandler returns sanitized HTML of the current document
func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.renderer.Render(s.session.Snapshot().Document)
	if err != nil {
		log.Printf("[WARN] failed to render preview: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

// importURLHandler extracts article text from a page and makes it the raw input
func (s *Server) importURLHandler(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		renderError(w, r, errors.New("url is required"), http.StatusBadRequest)
		return
	}

	article, err := s.importer.Extract(r.Context(), req.URL)
	if err != nil {
		log.Printf("[WARN] failed to import %s: %v", req.URL, err)
		renderError(w, r, err, http.StatusBadGateway)
		return
	}
	if err := s.session.SetRawInput(article.RawInput()); err != nil {
		s.renderSessionError(w, r, err)
		return
	}
	log.Printf("[INFO] imported %q from %s, %d chars", article.Title, req.URL, len(article.Text))
	renderJSON(w, r, http.StatusOK, rest.JSON{"title": article.Title, "session": s.session.Snapshot()})
}

// importFeedHandler lists feed entries, or imports the one selected by index
func (s *Server) importFeedHandler(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		renderError(w, r, errors.New("url is required"), http.StatusBadRequest)
		return
	}

	entries, err := s.importer.Entries(r.Context(), req.URL, s.config.GetFeedLimit())
	if err != nil {
		log.Printf("[WARN] failed to read feed %s: %v", req.URL, err)
		renderError(w, r, err, http.StatusBadGateway)
		return
	}
	if req.Index == nil {
		renderJSON(w, r, http.StatusOK, rest.JSON{"entries": entries})
		return
	}

	idx := *req.Index
	if idx < 0 || idx >= len(entries) {
		renderError(w, r, fmt.Errorf("entry index %d out of range, feed has %d entries", idx, len(entries)), http.StatusBadRequest)
		return
	}
	if err := s.session.SetRawInput(entries[idx].RawInput()); err != nil {
		s.renderSessionError(w, r, err)
		return
	}
	renderJSON(w, r, http.StatusOK, rest.JSON{"title": entries[idx].Title, "session": s.session.Snapshot()})
}

// getSettingsHandler returns user settings without the API key
func (s *Server) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.settingsView())
}

// updateSettingsHandler changes the fields present in the request
func (s *Server) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if req.VaultName != nil {
		if err := s.settings.SetVaultName(ctx, strings.TrimSpace(*req.VaultName)); err != nil {
			log.Printf("[ERROR] failed to save vault name: %v", err)
			renderError(w, r, err, http.StatusInternalServerError)
			return
		}
	}
	if req.APIKey != nil {
		if err := s.settings.SetAPIKey(ctx, strings.TrimSpace(*req.APIKey)); err != nil {
			log.Printf("[ERROR] failed to save api key: %v", err)
			renderError(w, r, err, http.StatusInternalServerError)
			return
		}
	}
	if req.DefaultTags != nil {
		s.settings.SetDefaultTags(strings.TrimSpace(*req.DefaultTags))
	}
	renderJSON(w, r, http.StatusOK, s.settingsView())
}

// testLocatorHandler returns a locator creating a small test note in the configured vault
func (s *Server) testLocatorHandler(w http.ResponseWriter, r *http.Request) {
	locator := note.TestLocator(s.config.GetHandOffScheme(), s.settings.VaultName())
	renderJSON(w, r, http.StatusOK, rest.JSON{"locator": locator})
}

func (s *Server) settingsView() settingsResponse {
	res := settingsResponse{
		VaultName:   s.settings.VaultName(),
		DefaultTags: s.settings.Get().DefaultTags,
		APIKeySet:   s.settings.APIKey() != "",
	}
	switch {
	case s.settings.HasStoredAPIKey():
		res.APIKeySource = "settings"
	case res.APIKeySet:
		res.APIKeySource = "environment"
	}
	return res
}

// renderSessionError maps controller errors to status codes. Generation failures report
// the user-facing description recorded in the session.
func (s *Server) renderSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrBusy):
		renderError(w, r, err, http.StatusConflict)
	case errors.Is(err, session.ErrBlankInput), errors.Is(err, session.ErrBlankInstruction),
		errors.Is(err, session.ErrNoDocument), errors.Is(err, domain.ErrMissingAPIKey):
		renderError(w, r, err, http.StatusBadRequest)
	default:
		if msg := s.session.Snapshot().LastError; msg != "" {
			err = errors.New(msg)
		}
		renderError(w, r, err, http.StatusBadGateway)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
