package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/distiller/pkg/config"
	"github.com/umputun/distiller/pkg/dictation"
	"github.com/umputun/distiller/pkg/handoff"
	"github.com/umputun/distiller/pkg/llm"
	"github.com/umputun/distiller/pkg/render"
	"github.com/umputun/distiller/pkg/repository"
	"github.com/umputun/distiller/pkg/session"
	"github.com/umputun/distiller/pkg/settings"
	"github.com/umputun/distiller/pkg/source"
	"github.com/umputun/distiller/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"distiller.yml" description:"configuration file"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	DB     string `long:"db" env:"DB" description:"database dsn, overrides config"`
	APIKey string `long:"api-key" env:"API_KEY" description:"fallback LLM API key"`

	// one-shot mode, server mode is used if none of the inputs set
	File    string   `short:"f" long:"file" description:"distill text from file"`
	URL     string   `short:"u" long:"url" description:"distill article extracted from url"`
	Stdin   bool     `long:"stdin" description:"distill text from stdin"`
	Dictate string   `long:"dictate" description:"raw audio file, transcript appended to input"`
	Refine  []string `short:"r" long:"refine" description:"refinement instruction, can be repeated"`
	HandOff bool     `long:"handoff" description:"hand off the note to the target application"`
	Copy    bool     `long:"copy" description:"copy the note to clipboard"`
	DryRun  bool     `long:"dry-run" description:"log hand-off locator instead of opening it"`
	Style   string   `long:"style" default:"auto" choice:"auto" choice:"dark" choice:"light" choice:"notty" description:"terminal markdown style"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

// stdout receives the note in one-shot mode, logs go to stderr
var stdout io.Writer = os.Stdout

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.LoadOrDefault(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.DB != "" {
		cfg.Database.DSN = opts.DB
	}

	apiKey := cfg.LLM.APIKey
	if opts.APIKey != "" {
		apiKey = opts.APIKey
	}
	SetupLog(opts.Debug, apiKey, cfg.Dictation.APIKey)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	store, err := settings.Load(ctx, repos.Setting, apiKey)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// keys stored in settings are masked too, including ones set later from the page
	secrets := []string{apiKey, cfg.Dictation.APIKey, store.Get().APIKey}
	SetupLog(opts.Debug, secrets...)
	store.OnAPIKeyChange(func(key string) {
		secrets = append(secrets, key)
		SetupLog(opts.Debug, secrets...)
	})

	var launcher session.Launcher = handoff.NewOSLauncher()
	if opts.DryRun || cfg.HandOff.Launcher == "log" {
		launcher = handoff.LogLauncher{}
	}

	ctrl := session.NewController(llm.NewDistiller(cfg.LLM), launcher, store, session.WithScheme(cfg.HandOff.Scheme))
	articles := source.NewArticleExtractor(cfg.Import.Timeout, cfg.Import.UserAgent, cfg.Import.MinTextLength)

	if opts.oneShot() {
		return runOnce(ctx, opts, cfg, ctrl, articles)
	}

	log.Printf("[INFO] starting distiller version %s", revision)
	srv := server.New(cfg, server.Deps{
		Session:  ctrl,
		Settings: store,
		Importer: importer{
			ArticleExtractor: articles,
			FeedReader:       source.NewFeedReader(cfg.Import.Timeout, cfg.Import.UserAgent),
		},
		Renderer: render.NewHTMLRenderer(),
		// with the os launcher the server opens the locator, the page must not do it again
		PageOpensLocator: cfg.HandOff.Launcher == "log" && !opts.DryRun,
	}, revision, opts.Debug)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	log.Print("[INFO] shutdown complete")
	return nil
}

// importer joins article and feed sources for the server
type importer struct {
	*source.ArticleExtractor
	*source.FeedReader
}

func (o Opts) oneShot() bool {
	return o.File != "" || o.URL != "" || o.Stdin || o.Dictate != ""
}

// runOnce distills the input given on the command line, applies refinements and prints the note
func runOnce(ctx context.Context, opts Opts, cfg *config.Config, ctrl *session.Controller, articles *source.ArticleExtractor) error {
	rawInput, err := readInput(ctx, opts, articles)
	if err != nil {
		return err
	}

	if opts.Dictate != "" {
		transcript, err := dictate(ctx, opts.Dictate, cfg.Dictation)
		if err != nil {
			return err
		}
		rawInput = strings.TrimSpace(rawInput + "\n\n" + transcript)
	}

	log.Printf("[INFO] distilling %d chars", len(rawInput))
	if err := ctrl.StartGeneration(ctx, rawInput); err != nil {
		return fmt.Errorf("generation failed: %s", describeFailure(ctrl, err))
	}

	for _, instruction := range opts.Refine {
		log.Printf("[INFO] refining: %s", instruction)
		if err := ctrl.StartRefinement(ctx, instruction); err != nil {
			return fmt.Errorf("refinement failed: %s", describeFailure(ctrl, err))
		}
	}

	document := ctrl.Snapshot().Document
	out, err := render.NewTerminalRenderer(opts.Style, 0).Render(document)
	if err != nil {
		log.Printf("[WARN] failed to render note, printing as is: %v", err)
		out = document
	}
	if _, err := io.WriteString(stdout, out); err != nil {
		return fmt.Errorf("failed to write note: %w", err)
	}

	if opts.Copy {
		if err := handoff.CopyToClipboard(document); err != nil {
			log.Printf("[WARN] failed to copy note: %v", err)
		} else {
			log.Print("[INFO] note copied to clipboard")
		}
	}

	if opts.HandOff {
		res, err := ctrl.ApproveAndHandOff()
		if err != nil {
			return fmt.Errorf("hand-off failed: %w", err)
		}
		log.Printf("[INFO] handed off %q", res.Filename)
	}
	return nil
}

func readInput(ctx context.Context, opts Opts, articles *source.ArticleExtractor) (string, error) {
	var parts []string
	if opts.File != "" {
		data, err := os.ReadFile(opts.File) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		parts = append(parts, string(data))
	}
	if opts.Stdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		parts = append(parts, string(data))
	}
	if opts.URL != "" {
		article, err := articles.Extract(ctx, opts.URL)
		if err != nil {
			return "", fmt.Errorf("failed to import %s: %w", opts.URL, err)
		}
		parts = append(parts, article.RawInput())
	}
	return strings.Join(parts, "\n\n"), nil
}

func dictate(ctx context.Context, path string, cfg config.DictationConfig) (string, error) {
	audio, err := os.Open(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return "", fmt.Errorf("failed to open audio: %w", err)
	}
	defer audio.Close()

	provider := dictation.NewProvider(dictation.Config{
		Endpoint:   cfg.Endpoint,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		Encoding:   cfg.Encoding,
		SampleRate: cfg.SampleRate,
	})
	transcript, err := provider.Listen(ctx, audio, dictation.Options{Continuous: cfg.Continuous, Language: cfg.Language},
		dictation.Handlers{
			Interim: func(text string) { log.Printf("[DEBUG] interim: %s", text) },
			Final:   func(text string) { log.Printf("[INFO] heard: %s", text) },
		})
	if err != nil {
		return "", fmt.Errorf("dictation failed: %w", err)
	}
	return transcript, nil
}

// describeFailure prefers the user-facing message recorded by the session
func describeFailure(ctrl *session.Controller, err error) string {
	if errors.Is(err, session.ErrBusy) || errors.Is(err, session.ErrBlankInput) || errors.Is(err, session.ErrBlankInstruction) {
		return err.Error()
	}
	if msg := ctrl.Snapshot().LastError; msg != "" {
		return msg
	}
	return err.Error()
}

// SetupLog configures lgr and the std logger. Logs go to stderr, stdout is reserved for notes.
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(os.Stderr), lgr.Err(os.Stderr)}
	if dbg {
		logOpts = append(logOpts, lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError)
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var secrets []string
	for _, s := range secs {
		if strings.TrimSpace(s) != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
