package ports

import "github.com/qiaoxuchen/auto-report-agent/internal/domain"

// ArtifactStore persists a finished report and returns a locator for it
// (a file path, a row key, ...).
type ArtifactStore interface {
	Save(a domain.Artifact) (string, error)
	Name() string
}
