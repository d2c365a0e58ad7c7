package watcher

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// SourceTag is the aggregator key this collector writes under.
const SourceTag = "file"

// Config describes the watched path.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Path == "" {
		return errors.New("file_watch.path is required when enabled")
	}
	return nil
}

// Event is the payload pushed for every observed file-system change.
type Event struct {
	Op   string `json:"event_type"`
	Path string `json:"src_path"`
}

// FileWatcher streams file-system events into the aggregator until stopped.
type FileWatcher struct {
	cfg Config
	obs ports.Observability

	mu      sync.Mutex
	w       *fsnotify.Watcher
	done    chan struct{}
	started bool
}

func New(cfg Config, obs ports.Observability) (*FileWatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FileWatcher{cfg: cfg, obs: obs}, nil
}

func (f *FileWatcher) Name() string { return "file_watcher" }

func (f *FileWatcher) Start(sink ports.Ingestor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		return fmt.Errorf("file watcher already started")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(f.cfg.Path); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", f.cfg.Path, err)
	}

	f.w = w
	f.done = make(chan struct{})
	f.started = true

	go f.run(sink)
	return nil
}

func (f *FileWatcher) run(sink ports.Ingestor) {
	defer close(f.done)
	for {
		select {
		case ev, ok := <-f.w.Events:
			if !ok {
				return
			}
			sink.Add(SourceTag, Event{Op: ev.Op.String(), Path: ev.Name})
		case err, ok := <-f.w.Errors:
			if !ok {
				return
			}
			f.obs.LogError("file_watch_error", err,
				ports.Field{Key: "path", Value: f.cfg.Path})
		}
	}
}

// Stop closes the underlying watch and waits for the event loop to drain.
func (f *FileWatcher) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.started {
		return nil
	}
	f.started = false
	err := f.w.Close()
	<-f.done
	return err
}

var _ ports.Collector = (*FileWatcher)(nil)
