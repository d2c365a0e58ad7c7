package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qiaoxuchen/auto-report-agent/internal/domain"
	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// FileStore persists each report as a UTF-8 text file named
// {report_type}_report_{timestamp}.txt under the output directory.
type FileStore struct {
	dir string
	ext string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("report output dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report output dir: %w", err)
	}
	return &FileStore{dir: dir, ext: "txt"}, nil
}

func (f *FileStore) Name() string { return "file" }

func (f *FileStore) Save(a domain.Artifact) (string, error) {
	name := fmt.Sprintf("%s_report_%s.%s", a.ReportType, a.GeneratedAt.Format("20060102_150405"), f.ext)
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, []byte(a.Body), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

var _ ports.ArtifactStore = (*FileStore)(nil)
