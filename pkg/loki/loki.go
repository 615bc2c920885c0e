package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrorReporter receives delivery failures; the pusher itself never logs
// through the hook that feeds it, or a broken Loki would loop forever.
type ErrorReporter interface {
	Error(msg string, args ...any)
}

type Config struct {
	// URL of the push endpoint, e.g. https://loki.example.com/loki/api/v1/push
	URL string `validate:"required"`

	// BatchLimit is the number of buffered lines that forces a flush.
	BatchLimit int `validate:"gte=1"`

	// FlushInterval is the longest a buffered line waits before a flush.
	FlushInterval time.Duration `validate:"gte=1"`

	// Labels are attached to every pushed stream.
	Labels map[string]string

	// TenantHeader/TenantID set the multi-tenancy header when both are
	// non-empty.
	TenantHeader string
	TenantID     string

	// Username/Password enable basic auth when both are non-empty.
	Username string
	Password string
}

func (cfg *Config) setDefaults() {
	if cfg.BatchLimit == 0 {
		cfg.BatchLimit = 1000
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.Labels == nil {
		cfg.Labels = map[string]string{}
	}
}

type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"msg"`
	Caller  string `json:"caller"`
}

// Pusher buffers log entries and ships them to Loki in gzipped batches
// from a single background goroutine.
type Pusher struct {
	config   *Config
	ctx      context.Context
	cancel   context.CancelFunc
	client   *http.Client
	incoming chan LogEntry
	quit     chan struct{}
	done     sync.WaitGroup
	buffered []streamValue
	reporter ErrorReporter
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values []streamValue     `json:"values"`
}

type streamValue []string

func New(ctx context.Context, cfg Config, reporter ErrorReporter) (*Pusher, error) {

	cfg.setDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pusher{
		config:   &cfg,
		ctx:      ctx,
		cancel:   cancel,
		client:   &http.Client{},
		incoming: make(chan LogEntry),
		quit:     make(chan struct{}),
		buffered: make([]streamValue, 0, cfg.BatchLimit),
		reporter: reporter,
	}

	p.done.Add(1)
	go p.run()
	return p, nil
}

func (p *Pusher) Push(entry LogEntry) error {
	p.incoming <- entry
	return nil
}

// Stop flushes the remaining buffer and shuts the pusher down.
func (p *Pusher) Stop() {
	close(p.quit)
	p.done.Wait()
	p.cancel()
}

func (p *Pusher) run() {
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	defer func() {
		if len(p.buffered) > 0 {
			p.flush()
		}
		p.done.Done()
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-p.quit:
			return
		case entry := <-p.incoming:
			p.buffered = append(p.buffered, encodeEntry(entry))
			if len(p.buffered) >= p.config.BatchLimit {
				p.flush()
			}
		case <-ticker.C:
			if len(p.buffered) > 0 {
				p.flush()
			}
		}
	}
}

func (p *Pusher) flush() {
	if err := p.send(); err != nil {
		p.reporter.Error("failed to send logs", "error", err)
	}
	p.buffered = p.buffered[:0]
}

func encodeEntry(entry LogEntry) streamValue {
	line, err := json.Marshal(entry)
	if err != nil {
		return nil
	}
	return []string{strconv.FormatInt(time.Now().UnixNano(), 10), string(line)}
}

func (p *Pusher) send() error {

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)

	payload := pushRequest{Streams: []stream{{
		Stream: p.config.Labels,
		Values: p.buffered,
	}}}
	if err := json.NewEncoder(gz).Encode(payload); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(p.ctx, http.MethodPost, p.config.URL, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if p.config.TenantHeader != "" && p.config.TenantID != "" {
		req.Header.Set(p.config.TenantHeader, p.config.TenantID)
	}
	if p.config.Username != "" && p.config.Password != "" {
		req.SetBasicAuth(p.config.Username, p.config.Password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected response from Loki: %s, body: %s", resp.Status, string(body))
	}

	return nil
}
