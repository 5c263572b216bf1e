package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

const defaultTemperature = 0.3

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=2m,description=HTTP server timeout (must cover a generation request)"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:distiller.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=4,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=2,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Settings database configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for note distillation"`

	HandOff HandOffConfig `yaml:"handoff" json:"handoff" jsonschema:"description=Note hand-off configuration"`

	Import ImportConfig `yaml:"import" json:"import" jsonschema:"description=Raw input import configuration"`

	Dictation DictationConfig `yaml:"dictation" json:"dictation" jsonschema:"description=Speech-to-text configuration"`
}

// LLMConfig holds LLM configuration for note distillation and refinement
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://generativelanguage.googleapis.com/v1beta/openai,description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=Fallback API key used when none is stored in settings (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"default=gemini-2.5-flash,description=Model name"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,minimum=0,maximum=2,description=Temperature for initial distillation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=0,description=Maximum tokens in response (0 means provider default)"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=90s,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=Distillation system prompt override (optional)"`
}

// HandOffConfig holds settings for passing finished notes to the external application
type HandOffConfig struct {
	Scheme   string `yaml:"scheme" json:"scheme" jsonschema:"default=obsidian,description=URI scheme of the target application"`
	Launcher string `yaml:"launcher" json:"launcher" jsonschema:"default=os,enum=os,enum=log,description=How the hand-off URI is opened: os opener or log only"`
}

// ImportConfig holds settings for importing raw input from the web
type ImportConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Fetch timeout"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Distiller/1.0,description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Minimum extracted text length to consider valid"`
	FeedLimit     int           `yaml:"feed_limit" json:"feed_limit" jsonschema:"default=20,minimum=1,description=Maximum number of feed entries listed"`
}

// DictationConfig holds speech-to-text provider settings
type DictationConfig struct {
	Endpoint   string `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api.deepgram.com/v1,description=Streaming speech-to-text API base URL"`
	APIKey     string `yaml:"api_key" json:"api_key" jsonschema:"description=Speech-to-text API key (can use environment variable)"`
	Model      string `yaml:"model" json:"model" jsonschema:"default=nova-2,description=Speech-to-text model"`
	Language   string `yaml:"language" json:"language" jsonschema:"default=en-US,description=Language tag"`
	Continuous bool   `yaml:"continuous" json:"continuous" jsonschema:"default=false,description=Keep listening after the first final transcript"`
	SampleRate int    `yaml:"sample_rate" json:"sample_rate" jsonschema:"default=16000,description=Audio sample rate"`
	Encoding   string `yaml:"encoding" json:"encoding" jsonschema:"default=linear16,description=Audio encoding"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	// set before parsing, zero is a valid temperature and can't stand for "not set"
	var cfg Config
	cfg.LLM.Temperature = defaultTemperature
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// LoadOrDefault reads configuration from path, or returns the default configuration if the file doesn't exist
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Default returns configuration with all defaults applied
func Default() *Config {
	var cfg Config
	cfg.LLM.Temperature = defaultTemperature
	setDefaults(&cfg)
	return &cfg
}

func setDefaults(cfg *Config) {
	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 2 * time.Minute
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:distiller.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 4
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for LLM
	if cfg.LLM.Endpoint == "" {
		cfg.LLM.Endpoint = "https://generativelanguage.googleapis.com/v1beta/openai"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-2.5-flash"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 90 * time.Second
	}

	// set defaults for hand-off
	if cfg.HandOff.Scheme == "" {
		cfg.HandOff.Scheme = "obsidian"
	}
	if cfg.HandOff.Launcher == "" {
		cfg.HandOff.Launcher = "os"
	}

	// set defaults for import
	if cfg.Import.Timeout == 0 {
		cfg.Import.Timeout = 30 * time.Second
	}
	if cfg.Import.UserAgent == "" {
		cfg.Import.UserAgent = "Distiller/1.0"
	}
	if cfg.Import.MinTextLength == 0 {
		cfg.Import.MinTextLength = 100
	}
	if cfg.Import.FeedLimit == 0 {
		cfg.Import.FeedLimit = 20
	}

	// set defaults for dictation
	if cfg.Dictation.Endpoint == "" {
		cfg.Dictation.Endpoint = "https://api.deepgram.com/v1"
	}
	if cfg.Dictation.Model == "" {
		cfg.Dictation.Model = "nova-2"
	}
	if cfg.Dictation.Language == "" {
		cfg.Dictation.Language = "en-US"
	}
	if cfg.Dictation.SampleRate == 0 {
		cfg.Dictation.SampleRate = 16000
	}
	if cfg.Dictation.Encoding == "" {
		cfg.Dictation.Encoding = "linear16"
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate LLM config
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must be non-negative")
	}

	// validate hand-off config
	if cfg.HandOff.Launcher != "os" && cfg.HandOff.Launcher != "log" {
		return fmt.Errorf("handoff.launcher must be os or log, got %q", cfg.HandOff.Launcher)
	}

	// validate import config
	if cfg.Import.MinTextLength < 0 {
		return fmt.Errorf("import.min_text_length must be non-negative")
	}
	if cfg.Import.FeedLimit < 1 {
		return fmt.Errorf("import.feed_limit must be at least 1")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}

// GetHandOffScheme returns URI scheme of the target note application
func (c *Config) GetHandOffScheme() string {
	return c.HandOff.Scheme
}

// GetFeedLimit returns max number of feed entries offered for import
func (c *Config) GetFeedLimit() int {
	return c.Import.FeedLimit
}
