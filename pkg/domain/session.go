package domain

import "errors"

// Status is the lifecycle status of a note session
type Status string

// status values
const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusReviewing  Status = "reviewing"
	StatusRefining   Status = "refining"
	StatusReady      Status = "ready"
)

// ErrEmptyDocument is returned when a state requiring a document is built without one
var ErrEmptyDocument = errors.New("document is empty")

// ErrMissingAPIKey is returned before any request is made if no API key is available
var ErrMissingAPIKey = errors.New("API Key is missing. Please configure it in Settings.") //nolint:staticcheck // shown to the user as is

// State is the current state of a note session. Each variant carries exactly the fields
// valid in that state; variants requiring a document can only be built through constructors
// that reject an empty one.
type State interface {
	Status() Status
	Input() string
	Doc() string
	sealed()
}

// Idle is the initial state and the state after a failed generation.
// Document is non-empty only when a previous note survived a failed regeneration.
type Idle struct {
	RawInput string
	Document string
}

// Generating means a distillation request is outstanding
type Generating struct {
	RawInput string
	Document string // prior document, untouched until the request succeeds
}

// Reviewing holds a generated document available for edit, refinement or hand-off
type Reviewing struct {
	rawInput string
	document string
}

// Refining means a refinement request over the current document is outstanding
type Refining struct {
	rawInput    string
	document    string
	Instruction string
}

// Ready means the document was handed off to the external application
type Ready struct {
	rawInput string
	document string
	Filename string
	Locator  string
}

// NewReviewing makes Reviewing state, document must be non-empty
func NewReviewing(rawInput, document string) (Reviewing, error) {
	if document == "" {
		return Reviewing{}, ErrEmptyDocument
	}
	return Reviewing{rawInput: rawInput, document: document}, nil
}

// NewRefining makes Refining state, document must be non-empty
func NewRefining(rawInput, document, instruction string) (Refining, error) {
	if document == "" {
		return Refining{}, ErrEmptyDocument
	}
	return Refining{rawInput: rawInput, document: document, Instruction: instruction}, nil
}

// NewReady makes Ready state, document must be non-empty
func NewReady(rawInput, document, filename, locator string) (Ready, error) {
	if document == "" {
		return Ready{}, ErrEmptyDocument
	}
	return Ready{rawInput: rawInput, document: document, Filename: filename, Locator: locator}, nil
}

func (s Idle) Status() Status       { return StatusIdle }
func (s Generating) Status() Status { return StatusGenerating }
func (s Reviewing) Status() Status  { return StatusReviewing }
func (s Refining) Status() Status   { return StatusRefining }
func (s Ready) Status() Status      { return StatusReady }

func (s Idle) Input() string       { return s.RawInput }
func (s Generating) Input() string { return s.RawInput }
func (s Reviewing) Input() string  { return s.rawInput }
func (s Refining) Input() string   { return s.rawInput }
func (s Ready) Input() string      { return s.rawInput }

func (s Idle) Doc() string       { return s.Document }
func (s Generating) Doc() string { return s.Document }
func (s Reviewing) Doc() string  { return s.document }
func (s Refining) Doc() string   { return s.document }
func (s Ready) Doc() string      { return s.document }

func (Idle) sealed()       {}
func (Generating) sealed() {}
func (Reviewing) sealed()  {}
func (Refining) sealed()   {}
func (Ready) sealed()      {}

// Busy reports whether the state has an outstanding request
func Busy(s State) bool {
	switch s.(type) {
	case Generating, Refining:
		return true
	}
	return false
}

// Snapshot is a flat read-only view of a session for rendering and API responses
type Snapshot struct {
	Status      Status `json:"status"`
	RawInput    string `json:"raw_input"`
	Document    string `json:"document"`
	LastError   string `json:"last_error,omitempty"`
	Instruction string `json:"instruction,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Locator     string `json:"locator,omitempty"`
	Busy        bool   `json:"busy"`
}

// HandOff describes a completed hand-off
type HandOff struct {
	Filename string `json:"filename"`
	Locator  string `json:"locator"`
}
