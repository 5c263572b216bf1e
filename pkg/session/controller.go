// Package session implements the note lifecycle: distillation, review, refinement and hand-off
// of a single active note.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/umputun/distiller/pkg/domain"
	"github.com/umputun/distiller/pkg/note"
)

//go:generate moq -out mocks/generator.go -pkg mocks -skip-ensure -fmt goimports . Generator
//go:generate moq -out mocks/launcher.go -pkg mocks -skip-ensure -fmt goimports . Launcher

// errors returned by controller operations
var (
	ErrBusy             = errors.New("another request is in progress")
	ErrBlankInput       = errors.New("raw input is blank")
	ErrBlankInstruction = errors.New("refinement instruction is blank")
	ErrNoDocument       = errors.New("no document")
)

// default failure descriptions, used when the underlying error has no message
const (
	generateFailedMsg = "Failed to generate note. Check your API Key in Settings."
	refineFailedMsg   = "Failed to refine note."
)

// Generator produces and refines notes via an external text-generation service
type Generator interface {
	Distill(ctx context.Context, apiKey, text string) (string, error)
	Refine(ctx context.Context, apiKey, document, instruction string) (string, error)
}

// Launcher hands a locator to the external application. There is no acknowledgment.
type Launcher interface {
	Open(locator string)
}

// SettingsProvider gives access to current user settings
type SettingsProvider interface {
	VaultName() string
	APIKey() string
}

// Controller owns the state of one note session
type Controller struct {
	gen      Generator
	launcher Launcher
	settings SettingsProvider
	scheme   string
	now      func() time.Time

	mu          sync.Mutex
	state       domain.State
	lastError   string
	instruction string
}

// Option customizes Controller
type Option func(c *Controller)

// WithClock sets the time source used for fallback filenames
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithScheme sets the hand-off URI scheme, "obsidian" by default
func WithScheme(scheme string) Option {
	return func(c *Controller) { c.scheme = scheme }
}

// NewController makes a controller in Idle state
func NewController(gen Generator, launcher Launcher, settings SettingsProvider, opts ...Option) *Controller {
	res := &Controller{
		gen:      gen,
		launcher: launcher,
		settings: settings,
		scheme:   "obsidian",
		now:      time.Now,
		state:    domain.Idle{},
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// StartGeneration distills rawInput into a new document.
// Blank input is a no-op returning ErrBlankInput. On failure the session returns to Idle
// and the previous document, if any, is kept.
func (c *Controller) StartGeneration(ctx context.Context, rawInput string) error {
	if strings.TrimSpace(rawInput) == "" {
		return ErrBlankInput
	}

	c.mu.Lock()
	if domain.Busy(c.state) {
		c.mu.Unlock()
		return ErrBusy
	}
	prevDoc := c.state.Doc()
	apiKey := c.settings.APIKey()
	if strings.TrimSpace(apiKey) == "" {
		c.state = domain.Idle{RawInput: rawInput, Document: prevDoc}
		c.lastError = domain.ErrMissingAPIKey.Error()
		c.mu.Unlock()
		return domain.ErrMissingAPIKey
	}
	c.lastError = ""
	c.state = domain.Generating{RawInput: rawInput, Document: prevDoc}
	c.mu.Unlock()

	log.Printf("[DEBUG] generation started, %d chars of input", len(rawInput))
	doc, err := c.gen.Distill(ctx, apiKey, rawInput)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		log.Printf("[WARN] generation failed: %v", err)
		c.state = domain.Idle{RawInput: rawInput, Document: prevDoc}
		c.lastError = describe(err, generateFailedMsg)
		return fmt.Errorf("generate: %w", err)
	}

	reviewing, err := domain.NewReviewing(rawInput, doc)
	if err != nil {
		c.state = domain.Idle{RawInput: rawInput, Document: prevDoc}
		c.lastError = generateFailedMsg
		return fmt.Errorf("generate: %w", err)
	}
	c.state = reviewing
	log.Printf("[INFO] note generated, %d chars", len(doc))
	return nil
}

// StartRefinement rewrites the current document following instruction.
// On failure the session returns to Reviewing with the document unchanged.
func (c *Controller) StartRefinement(ctx context.Context, instruction string) error {
	if strings.TrimSpace(instruction) == "" {
		return ErrBlankInstruction
	}

	c.mu.Lock()
	if domain.Busy(c.state) {
		c.mu.Unlock()
		return ErrBusy
	}
	rawInput, doc := c.state.Input(), c.state.Doc()
	refining, err := domain.NewRefining(rawInput, doc, instruction)
	if err != nil {
		c.mu.Unlock()
		return ErrNoDocument
	}
	// the document is non-empty here, so Reviewing can't fail
	prev, _ := domain.NewReviewing(rawInput, doc)
	c.instruction = instruction
	apiKey := c.settings.APIKey()
	if strings.TrimSpace(apiKey) == "" {
		c.state = prev
		c.lastError = domain.ErrMissingAPIKey.Error()
		c.mu.Unlock()
		return domain.ErrMissingAPIKey
	}
	c.lastError = ""
	c.state = refining
	c.mu.Unlock()

	log.Printf("[DEBUG] refinement started: %q", instruction)
	refined, err := c.gen.Refine(ctx, apiKey, doc, instruction)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		log.Printf("[WARN] refinement failed: %v", err)
		c.state = prev
		c.lastError = describe(err, refineFailedMsg)
		return fmt.Errorf("refine: %w", err)
	}

	next, err := domain.NewReviewing(rawInput, refined)
	if err != nil {
		c.state = prev
		c.lastError = refineFailedMsg
		return fmt.Errorf("refine: %w", err)
	}
	c.state = next
	c.instruction = ""
	log.Printf("[INFO] note refined, %d chars", len(refined))
	return nil
}

// EditDocument replaces the document with user-edited text.
// Editing from Idle without a document starts review, editing a handed-off note returns it to review.
func (c *Controller) EditDocument(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch st := c.state.(type) {
	case domain.Generating, domain.Refining:
		return ErrBusy
	case domain.Idle:
		if st.Document == "" && text != "" {
			c.state, _ = domain.NewReviewing(st.RawInput, text)
		} else {
			c.state = domain.Idle{RawInput: st.RawInput, Document: text}
		}
	case domain.Reviewing, domain.Ready:
		next, err := domain.NewReviewing(st.Input(), text)
		if err != nil {
			return ErrNoDocument
		}
		c.state = next
	}
	c.lastError = ""
	return nil
}

// SetRawInput updates the source text kept for the next generation
func (c *Controller) SetRawInput(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch st := c.state.(type) {
	case domain.Generating, domain.Refining:
		return ErrBusy
	case domain.Idle:
		c.state = domain.Idle{RawInput: text, Document: st.Document}
	case domain.Reviewing:
		c.state, _ = domain.NewReviewing(text, st.Doc())
	case domain.Ready:
		c.state, _ = domain.NewReady(text, st.Doc(), st.Filename, st.Locator)
	}
	return nil
}

// ApproveAndHandOff derives the filename, passes the note to the external application
// and marks the session Ready. Receipt by the application is not verified.
func (c *Controller) ApproveAndHandOff() (domain.HandOff, error) {
	c.mu.Lock()
	if domain.Busy(c.state) {
		c.mu.Unlock()
		return domain.HandOff{}, ErrBusy
	}
	doc := c.state.Doc()
	if doc == "" {
		c.mu.Unlock()
		return domain.HandOff{}, ErrNoDocument
	}

	filename := note.DeriveFilename(doc, c.now())
	locator := note.BuildLocator(c.scheme, c.settings.VaultName(), filename, doc)
	c.state, _ = domain.NewReady(c.state.Input(), doc, filename, locator)
	c.mu.Unlock()

	c.launcher.Open(locator)
	log.Printf("[INFO] note %q handed off, %d bytes locator", filename, len(locator))
	return domain.HandOff{Filename: filename, Locator: locator}, nil
}

// Reset drops the current note and starts over
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if domain.Busy(c.state) {
		return ErrBusy
	}
	c.state = domain.Idle{}
	c.lastError = ""
	c.instruction = ""
	return nil
}

// State returns current state
func (c *Controller) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a flat view of the session
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := domain.Snapshot{
		Status:      c.state.Status(),
		RawInput:    c.state.Input(),
		Document:    c.state.Doc(),
		LastError:   c.lastError,
		Instruction: c.instruction,
		Busy:        domain.Busy(c.state),
	}
	if ready, ok := c.state.(domain.Ready); ok {
		res.Filename = ready.Filename
		res.Locator = ready.Locator
	}
	return res
}

// describe makes a user-facing failure description
func describe(err error, fallback string) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return fallback
	}
	return err.Error()
}
