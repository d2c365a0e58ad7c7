package autoreport

import (
	"time"

	base "github.com/qiaoxuchen/auto-report-agent/pkg/autoreport"
)

// Re-exported errors for convenience.
var (
	ErrSummarizerDisabled = base.ErrSummarizerDisabled
	ErrDuplicateJob       = base.ErrDuplicateJob
	ErrBadSchedule        = base.ErrBadSchedule
)

// Type aliases so consumers can import the module root directly.
type (
	Config           = base.Config
	CoreConfig       = base.CoreConfig
	SummarizerConfig = base.SummarizerConfig
	NotifierConfig   = base.NotifierConfig
	EmailConfig      = base.EmailConfig
	ArchiveConfig    = base.ArchiveConfig
	ReportTypeConfig = base.ReportTypeConfig
	CollectorsConfig = base.CollectorsConfig
	FileWatchConfig  = base.FileWatchConfig
	DocScanConfig    = base.DocScanConfig
	Runtime          = base.Runtime
	RuntimeOption    = base.RuntimeOption
	DataPoint        = base.DataPoint
	TimeWindow       = base.TimeWindow
	ReportPeriod     = base.ReportPeriod
	Artifact         = base.Artifact
	Ingestor         = base.Ingestor
	Aggregator       = base.Aggregator
	Collector        = base.Collector
	Summarizer       = base.Summarizer
	SummaryResult    = base.SummaryResult
	Outcome          = base.Outcome
	Notifier         = base.Notifier
	ArtifactStore    = base.ArtifactStore
	Observability    = base.Observability
	Field            = base.Field
	Job              = base.Job
	Trigger          = base.Trigger
	IntervalTrigger  = base.IntervalTrigger
	CronTrigger      = base.CronTrigger
	NotifierFunc     = base.NotifierFunc
	ArtifactSaveFunc = base.ArtifactSaveFunc
)

// Outcome values.
const (
	OutcomeOK             = base.OutcomeOK
	OutcomeTransportFault = base.OutcomeTransportFault
	OutcomeParseFault     = base.OutcomeParseFault
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Runtime builder helpers.
func Conf(path string, opts ...RuntimeOption) (*Runtime, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

// Dependency overrides.
func WithAggregator(agg Aggregator) RuntimeOption {
	return base.WithAggregator(agg)
}

func WithSummarizer(s Summarizer) RuntimeOption {
	return base.WithSummarizer(s)
}

func WithNotifier(n Notifier) RuntimeOption {
	return base.WithNotifier(n)
}

func WithArtifactStore(s ArtifactStore) RuntimeOption {
	return base.WithArtifactStore(s)
}

func WithCollector(c Collector) RuntimeOption {
	return base.WithCollector(c)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithClock(now func() time.Time) RuntimeOption {
	return base.WithClock(now)
}

// Triggers.
func NewCronTrigger(expr string) (CronTrigger, error) {
	return base.NewCronTrigger(expr)
}

// Callback adapters.
func NewCallbackNotifier(fn NotifierFunc) Notifier {
	return base.NewCallbackNotifier(fn)
}

func NewCallbackStore(name string, fn ArtifactSaveFunc) ArtifactStore {
	return base.NewCallbackStore(name, fn)
}
