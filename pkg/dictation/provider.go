// Package dictation streams raw PCM audio to a Deepgram-compatible speech-to-text service
// and reports interim and final transcripts.
package dictation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// ErrMissingKey is returned when no speech service key is configured
var ErrMissingKey = errors.New("dictation API key is not configured")

const chunkSize = 3200 // 100ms of 16kHz mono linear16

// Config defines connection to the speech service
type Config struct {
	Endpoint   string
	APIKey     string
	Model      string
	Encoding   string
	SampleRate int
}

// Options controls a single listening session
type Options struct {
	Continuous bool   // keep listening after the first final transcript
	Language   string // BCP-47 tag, e.g. en-US
}

// Handlers receive transcripts as they arrive, both are optional
type Handlers struct {
	Interim func(text string)
	Final   func(text string)
}

// Provider talks to the speech service
type Provider struct {
	cfg    Config
	dialer *websocket.Dialer
}

// NewProvider makes provider with defaults for missing fields
func NewProvider(cfg Config) *Provider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.deepgram.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "linear16"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &Provider{cfg: cfg, dialer: websocket.DefaultDialer}
}

// Listen streams audio until it is exhausted, ctx is canceled or, in non-continuous mode,
// the first final transcript arrives. Returns all final transcripts joined with spaces.
func (p *Provider) Listen(ctx context.Context, audio io.Reader, opts Options, h Handlers) (string, error) {
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return "", ErrMissingKey
	}
	wsURL, err := p.listenURL(opts)
	if err != nil {
		return "", err
	}

	headers := http.Header{}
	headers.Set("Authorization", "Token "+p.cfg.APIKey)
	conn, resp, err := p.dialer.DialContext(ctx, wsURL, headers)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return "", fmt.Errorf("connect to speech service: %w", err)
	}
	defer conn.Close()

	lctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := &session{conn: conn, opts: opts, handlers: h, stop: make(chan struct{})}
	g, gctx := errgroup.WithContext(lctx)
	g.Go(func() error { return s.writeLoop(gctx, pump(gctx, audio)) })
	g.Go(func() error {
		defer cancel()
		return s.readLoop(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		_ = conn.Close() // unblocks the reader
		return nil
	})

	err = g.Wait()
	transcript := s.transcript()
	if err != nil {
		return transcript, err
	}
	if ctx.Err() != nil {
		return transcript, ctx.Err()
	}
	log.Printf("[DEBUG] dictation finished, %d chars transcribed", len(transcript))
	return transcript, nil
}

func (p *Provider) listenURL(opts Options) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(p.cfg.Endpoint), "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}

	u, err := url.Parse(base + "/listen")
	if err != nil {
		return "", fmt.Errorf("invalid speech service endpoint: %w", err)
	}
	q := u.Query()
	q.Set("model", p.cfg.Model)
	q.Set("encoding", p.cfg.Encoding)
	q.Set("sample_rate", strconv.Itoa(p.cfg.SampleRate))
	q.Set("channels", "1")
	q.Set("interim_results", "true")
	q.Set("smart_format", "true")
	if opts.Language != "" {
		q.Set("language", opts.Language)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type chunk struct {
	data []byte
	err  error
}

// pump reads audio in a separate goroutine, a blocking reader can't be interrupted otherwise
func pump(ctx context.Context, audio io.Reader) <-chan chunk {
	ch := make(chan chunk)
	go func() {
		defer close(ch)
		buf := make([]byte, chunkSize)
		for {
			n, err := audio.Read(buf)
			if n > 0 {
				select {
				case ch <- chunk{data: append([]byte(nil), buf[:n]...)}:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					select {
					case ch <- chunk{err: err}:
					case <-ctx.Done():
					}
				}
				return
			}
		}
	}()
	return ch
}

type session struct {
	conn     *websocket.Conn
	opts     Options
	handlers Handlers

	stop      chan struct{}
	stopOnce  sync.Once
	closeSent atomic.Bool

	mu     sync.Mutex
	finals []string
}

func (s *session) halt() { s.stopOnce.Do(func() { close(s.stop) }) }

// writeLoop is the only writer to the connection
func (s *session) writeLoop(ctx context.Context, chunks <-chan chunk) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return s.closeStream(ctx)
		case c, ok := <-chunks:
			if !ok {
				return s.closeStream(ctx)
			}
			if c.err != nil {
				return fmt.Errorf("read audio: %w", c.err)
			}
			if err := s.conn.WriteMessage(websocket.BinaryMessage, c.data); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("send audio: %w", err)
			}
		}
	}
}

func (s *session) closeStream(ctx context.Context) error {
	s.closeSent.Store(true)
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`)); err != nil && ctx.Err() == nil {
		return fmt.Errorf("close stream: %w", err)
	}
	return nil
}

func (s *session) readLoop(ctx context.Context) error {
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || s.closeSent.Load() ||
				websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return nil
			}
			return fmt.Errorf("read transcript: %w", err)
		}

		var msg response
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		if strings.EqualFold(msg.Type, "Error") {
			if msg.Message == "" {
				msg.Message = "speech service returned an unknown error"
			}
			return errors.New(msg.Message)
		}

		text := msg.transcript()
		if text == "" {
			continue
		}
		if !msg.IsFinal && !msg.SpeechFinal {
			if s.handlers.Interim != nil {
				s.handlers.Interim(text)
			}
			continue
		}

		s.mu.Lock()
		s.finals = append(s.finals, text)
		s.mu.Unlock()
		if s.handlers.Final != nil {
			s.handlers.Final(text)
		}
		if !s.opts.Continuous {
			s.halt()
			return nil
		}
	}
}

func (s *session) transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.finals, " ")
}

type response struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`
	Channel     struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

func (r response) transcript() string {
	if len(r.Channel.Alternatives) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Channel.Alternatives[0].Transcript)
}
