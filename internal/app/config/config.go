package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/docscan"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/notifier"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/summarizer"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/watcher"
)

type Config struct {
	Core       CoreConfig       `yaml:"core"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Notifier   NotifierConfig   `yaml:"notifier"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Reports    map[string]ReportTypeConfig `yaml:"report_types"`
	Collectors CollectorsConfig `yaml:"collectors"`
}

type CoreConfig struct {
	ReportOutputDir string `yaml:"report_output_dir"`
	MetricsAddr     string `yaml:"metrics_addr"`
}

type SummarizerConfig struct {
	Enabled bool `yaml:"enabled"`
	summarizer.Config `yaml:",inline"`
}

type NotifierConfig struct {
	Email notifier.Config `yaml:"email"`
}

// ArchiveConfig points at the optional Postgres report archive. Leaving
// conn_string empty disables the archive entirely.
type ArchiveConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type ReportTypeConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Schedule    string `yaml:"schedule"`
	Description string `yaml:"description"`
}

type CollectorsConfig struct {
	FileWatch watcher.Config `yaml:"file_watch"`
	DocScan   docscan.Config `yaml:"doc_scan"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Core.ReportOutputDir == "" {
		c.Core.ReportOutputDir = "./reports"
	}
	if c.Core.MetricsAddr == "" {
		c.Core.MetricsAddr = ":9100"
	}
	if c.Archive.ConnString != "" && c.Archive.Table == "" {
		c.Archive.Table = "reports"
	}
	if c.Summarizer.Timeout == 0 {
		c.Summarizer.Timeout = 120 * time.Second
	}
	c.Summarizer.Config.ApplyDefaults()
	c.Collectors.DocScan.ApplyDefaults()
}

func (c *Config) Validate() error {
	// Report generation can degrade down to fallback text but no further, so
	// the summarizer must be at least nominally present.
	if !c.Summarizer.Enabled {
		return fmt.Errorf("summarizer.enabled must be true")
	}
	if c.Summarizer.APIKey == "" {
		return fmt.Errorf("summarizer.api_key is required")
	}
	if err := c.Notifier.Email.Validate(); err != nil {
		return fmt.Errorf("notifier config: %w", err)
	}
	if err := c.Collectors.FileWatch.Validate(); err != nil {
		return fmt.Errorf("collectors config: %w", err)
	}
	if err := c.Collectors.DocScan.Validate(); err != nil {
		return fmt.Errorf("collectors config: %w", err)
	}
	return nil
}
