package docscan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// SourceTag is the aggregator key this collector writes under.
const SourceTag = "document"

// Config describes the scanned directory.
type Config struct {
	Enabled    bool          `yaml:"enabled"`
	Path       string        `yaml:"path"`
	Interval   time.Duration `yaml:"interval"`
	MaxSnippet int           `yaml:"max_snippet"`
}

func (c *Config) ApplyDefaults() {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Minute
	}
	if c.MaxSnippet <= 0 {
		c.MaxSnippet = 500
	}
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Path == "" {
		return errors.New("doc_scan.path is required when enabled")
	}
	return nil
}

// Document is the payload pushed for every changed document.
type Document struct {
	Filename     string    `json:"filename"`
	LastModified time.Time `json:"last_modified"`
	Snippet      string    `json:"content_snippet"`
}

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".rst": true, ".log": true, ".csv": true,
}

// DocScanner walks a directory on a schedule and pushes a snippet of every
// document modified since the previous scan. It owns no timer: the scheduler
// drives Scan through an interval job.
type DocScanner struct {
	cfg Config
	obs ports.Observability

	mu       sync.Mutex
	lastScan time.Time
}

func New(cfg Config, obs ports.Observability) (*DocScanner, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &DocScanner{cfg: cfg, obs: obs}, nil
}

func (d *DocScanner) Name() string { return "doc_scanner" }

func (d *DocScanner) Interval() time.Duration { return d.cfg.Interval }

// Scan pushes every document modified since the previous call. Unreadable or
// non-text files are skipped, never fatal.
func (d *DocScanner) Scan(sink ports.Ingestor) {
	d.mu.Lock()
	since := d.lastScan
	d.lastScan = time.Now()
	d.mu.Unlock()

	err := filepath.WalkDir(d.cfg.Path, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !textExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().Before(since) {
			return nil
		}

		snippet, err := d.readSnippet(path)
		if err != nil {
			d.obs.LogError("doc_scan_read_failed", err, ports.Field{Key: "path", Value: path})
			return nil
		}
		sink.Add(SourceTag, Document{
			Filename:     filepath.Base(path),
			LastModified: info.ModTime(),
			Snippet:      snippet,
		})
		return nil
	})
	if err != nil {
		d.obs.LogError("doc_scan_failed", err, ports.Field{Key: "path", Value: d.cfg.Path})
	}
}

func (d *DocScanner) readSnippet(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(raw) > d.cfg.MaxSnippet {
		raw = raw[:d.cfg.MaxSnippet]
		for len(raw) > 0 && !utf8.Valid(raw) {
			raw = raw[:len(raw)-1]
		}
	}
	return string(raw), nil
}
