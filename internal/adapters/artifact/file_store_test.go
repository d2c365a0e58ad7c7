package artifact

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qiaoxuchen/auto-report-agent/internal/domain"
)

func TestFileStoreSave(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	generated := time.Date(2024, 5, 2, 18, 0, 5, 0, time.UTC)
	path, err := fs.Save(domain.Artifact{
		ReportType:  "daily",
		GeneratedAt: generated,
		Body:        "report body",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	want := filepath.Join(dir, "daily_report_20240502_180005.txt")
	if path != want {
		t.Fatalf("expected path %s, got %s", want, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(raw) != "report body" {
		t.Fatalf("unexpected artifact content %q", raw)
	}
}

func TestFileStoreCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	if _, err := NewFileStore(dir); err != nil {
		t.Fatalf("expected directory creation, got %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("output dir missing: %v", err)
	}
}

func TestFileStoreRejectsEmptyDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatalf("expected error for empty output dir")
	}
}
