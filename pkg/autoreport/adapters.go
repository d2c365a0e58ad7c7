package autoreport

import (
	"fmt"

	"github.com/qiaoxuchen/auto-report-agent/internal/domain"
	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// NotifierFunc is invoked with the subject and body of a finished report.
type NotifierFunc func(subject, body string) error

// ArtifactSaveFunc persists one artifact and returns its locator.
type ArtifactSaveFunc func(a Artifact) (string, error)

// NewCallbackNotifier adapts a plain function into a Notifier so callers can
// plug arbitrary delivery channels without defining structs.
func NewCallbackNotifier(fn NotifierFunc) Notifier {
	return &callbackNotifier{fn: fn}
}

type callbackNotifier struct {
	fn NotifierFunc
}

func (n *callbackNotifier) Send(subject, body string) error {
	if n.fn == nil {
		return fmt.Errorf("callback notifier: nil handler")
	}
	return n.fn(subject, body)
}

// NewCallbackStore adapts a plain function into an ArtifactStore.
func NewCallbackStore(name string, fn ArtifactSaveFunc) ArtifactStore {
	if name == "" {
		name = "callback"
	}
	return &callbackStore{name: name, fn: fn}
}

type callbackStore struct {
	name string
	fn   ArtifactSaveFunc
}

func (s *callbackStore) Save(a domain.Artifact) (string, error) {
	if s.fn == nil {
		return "", fmt.Errorf("callback store %q: nil handler", s.name)
	}
	return s.fn(a)
}

func (s *callbackStore) Name() string { return s.name }

var (
	_ ports.Notifier      = (*callbackNotifier)(nil)
	_ ports.ArtifactStore = (*callbackStore)(nil)
)
