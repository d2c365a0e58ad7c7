package autoreport

import (
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/docscan"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/notifier"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/summarizer"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/watcher"
	"github.com/qiaoxuchen/auto-report-agent/internal/app/config"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// CoreConfig holds output and metrics settings.
	CoreConfig = config.CoreConfig
	// SummarizerConfig configures the summarization endpoint.
	SummarizerConfig = config.SummarizerConfig
	// NotifierConfig configures delivery channels.
	NotifierConfig = config.NotifierConfig
	// EmailConfig holds SMTP settings.
	EmailConfig = notifier.Config
	// ArchiveConfig points at the optional Postgres report archive.
	ArchiveConfig = config.ArchiveConfig
	// ReportTypeConfig enables one scheduled report.
	ReportTypeConfig = config.ReportTypeConfig
	// CollectorsConfig enables the built-in producers.
	CollectorsConfig = config.CollectorsConfig
	// FileWatchConfig configures the fsnotify collector.
	FileWatchConfig = watcher.Config
	// DocScanConfig configures the document scan collector.
	DocScanConfig = docscan.Config
	// SummarizerEndpointConfig holds the raw endpoint details.
	SummarizerEndpointConfig = summarizer.Config
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
