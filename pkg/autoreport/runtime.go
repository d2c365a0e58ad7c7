package autoreport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/artifact"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/docscan"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/notifier"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/observability"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/store"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/summarizer"
	"github.com/qiaoxuchen/auto-report-agent/internal/adapters/watcher"
	"github.com/qiaoxuchen/auto-report-agent/internal/app/report"
	"github.com/qiaoxuchen/auto-report-agent/internal/app/sched"
	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// ErrSummarizerDisabled is returned when no summarizer can be constructed.
// Report generation degrades down to fallback text but no further, so the
// runtime refuses to start without one.
var ErrSummarizerDisabled = errors.New("autoreport: summarizer disabled or missing api key")

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	aggregator    ports.Aggregator
	summarizer    ports.Summarizer
	notifier      ports.Notifier
	observability ports.Observability
	stores        []ports.ArtifactStore
	collectors    []ports.Collector
	clock         func() time.Time
}

// WithAggregator replaces the in-memory store, e.g. with a persistent one.
func WithAggregator(agg ports.Aggregator) RuntimeOption {
	return func(o *runtimeOverrides) { o.aggregator = agg }
}

// WithSummarizer injects a custom summarization backend.
func WithSummarizer(s ports.Summarizer) RuntimeOption {
	return func(o *runtimeOverrides) { o.summarizer = s }
}

// WithNotifier injects a custom delivery channel (webhook, chat bot, ...).
func WithNotifier(n ports.Notifier) RuntimeOption {
	return func(o *runtimeOverrides) { o.notifier = n }
}

// WithArtifactStore appends an artifact store. The first store configured is
// the primary one; the rest are best-effort mirrors.
func WithArtifactStore(s ports.ArtifactStore) RuntimeOption {
	return func(o *runtimeOverrides) { o.stores = append(o.stores, s) }
}

// WithCollector appends a producer started and stopped with the runtime.
func WithCollector(c ports.Collector) RuntimeOption {
	return func(o *runtimeOverrides) { o.collectors = append(o.collectors, c) }
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs ports.Observability) RuntimeOption {
	return func(o *runtimeOverrides) { o.observability = obs }
}

// WithClock overrides the time source used for window resolution; a test seam.
func WithClock(now func() time.Time) RuntimeOption {
	return func(o *runtimeOverrides) { o.clock = now }
}

// Runtime wires collectors → aggregator → scheduled report pipeline and
// exposes simple lifecycle hooks for embedding the agent in any Go service.
type Runtime struct {
	cfg        *Config
	obs        ports.Observability
	agg        ports.Aggregator
	ingest     ports.Ingestor
	scheduler  *sched.Scheduler
	pipeline   *report.Pipeline
	collectors []ports.Collector
	db         *sql.DB

	metricsSrv  *http.Server
	gaugeStopCh chan struct{}
}

// NewRuntime bootstraps the default adapters (in-memory aggregator, HTTP
// summarizer, SMTP notifier, file artifact store, Prometheus observability)
// and registers every enabled report type and built-in collector. Options
// override any dependency.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs()
	}

	agg := overrides.aggregator
	if agg == nil {
		agg = store.NewMemStore()
	}

	sum := overrides.summarizer
	if sum == nil {
		if !cfg.Summarizer.Enabled || cfg.Summarizer.APIKey == "" {
			return nil, ErrSummarizerDisabled
		}
		sum = summarizer.New(cfg.Summarizer.Config)
	}

	ntf := overrides.notifier
	if ntf == nil {
		var err error
		ntf, err = notifier.New(cfg.Notifier.Email)
		if err != nil {
			return nil, fmt.Errorf("notifier: %w", err)
		}
	}

	var db *sql.DB
	stores := overrides.stores
	if len(stores) == 0 {
		fileStore, err := artifact.NewFileStore(cfg.Core.ReportOutputDir)
		if err != nil {
			return nil, fmt.Errorf("artifact store: %w", err)
		}
		stores = append(stores, fileStore)

		if cfg.Archive.ConnString != "" {
			db, err = sql.Open("postgres", cfg.Archive.ConnString)
			if err != nil {
				return nil, fmt.Errorf("archive: %w", err)
			}
			stores = append(stores, artifact.NewPGArchive(db, cfg.Archive.Table))
		}
	}

	pipe := report.New(agg, sum, ntf, obs, stores...)
	if overrides.clock != nil {
		pipe.SetClock(overrides.clock)
	}

	rt := &Runtime{
		cfg:        cfg,
		obs:        obs,
		agg:        agg,
		ingest:     &meteredIngestor{agg: agg, obs: obs},
		scheduler:  sched.New(obs),
		pipeline:   pipe,
		collectors: overrides.collectors,
		db:         db,
	}

	if err := rt.buildCollectors(); err != nil {
		return nil, err
	}
	rt.registerReportJobs()
	return rt, nil
}

// buildCollectors resolves the optional built-in producers once at startup;
// nothing re-checks enabled flags at call time.
func (r *Runtime) buildCollectors() error {
	if r.cfg.Collectors.FileWatch.Enabled {
		fw, err := watcher.New(r.cfg.Collectors.FileWatch, r.obs)
		if err != nil {
			return fmt.Errorf("file watcher: %w", err)
		}
		r.collectors = append(r.collectors, fw)
	}

	if r.cfg.Collectors.DocScan.Enabled {
		scanner, err := docscan.New(r.cfg.Collectors.DocScan, r.obs)
		if err != nil {
			return fmt.Errorf("doc scanner: %w", err)
		}
		job := sched.Job{
			ID:          "doc_scan_job",
			Description: "periodic document scan",
			Trigger:     sched.IntervalTrigger{Every: scanner.Interval()},
			Run:         func() { scanner.Scan(r.ingest) },
		}
		if err := r.scheduler.Register(job); err != nil {
			return fmt.Errorf("doc scanner: %w", err)
		}
	}
	return nil
}

// registerReportJobs walks the configured report types. A malformed schedule
// or duplicate id disables that one job and is logged; every other job still
// registers.
func (r *Runtime) registerReportJobs() {
	names := make([]string, 0, len(r.cfg.Reports))
	for name := range r.cfg.Reports {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rc := r.cfg.Reports[name]
		if !rc.Enabled {
			continue
		}
		desc := rc.Description
		if desc == "" {
			desc = name + " report"
		}

		trig, err := sched.NewCronTrigger(rc.Schedule)
		if err != nil {
			r.obs.LogError("report_schedule_invalid", err,
				ports.Field{Key: "report_type", Value: name})
			continue
		}

		reportType, description := name, desc
		job := sched.Job{
			ID:          name + "_report_job",
			Description: desc,
			Trigger:     trig,
			Run: func() {
				r.pipeline.Run(context.Background(), reportType, description)
			},
		}
		if err := r.scheduler.Register(job); err != nil {
			r.obs.LogError("report_job_conflict", err,
				ports.Field{Key: "report_type", Value: name})
			continue
		}
		r.obs.LogInfo("report_job_scheduled",
			ports.Field{Key: "report_type", Value: name},
			ports.Field{Key: "schedule", Value: rc.Schedule})
	}
}

// Ingestor returns the write-only aggregator surface for external producers.
func (r *Runtime) Ingestor() ports.Ingestor { return r.ingest }

// Aggregator returns the shared store.
func (r *Runtime) Aggregator() ports.Aggregator { return r.agg }

// Pipeline returns the report pipeline, e.g. to register extra formatters.
func (r *Runtime) Pipeline() *report.Pipeline { return r.pipeline }

// Scheduler returns the job registry so embedders can add their own jobs
// before Start.
func (r *Runtime) Scheduler() *sched.Scheduler { return r.scheduler }

// Start launches the collectors, the scheduler and the metrics endpoint.
// It returns immediately; call Run to block on a context instead.
func (r *Runtime) Start() error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}
	for _, col := range r.collectors {
		if err := col.Start(r.ingest); err != nil {
			return fmt.Errorf("start collector %s: %w", col.Name(), err)
		}
		r.obs.LogInfo("collector_started", ports.Field{Key: "collector", Value: col.Name()})
	}
	if err := r.scheduler.Start(); err != nil {
		return err
	}
	r.startMetrics()
	return nil
}

// Run starts the runtime and blocks until the provided context is cancelled,
// then attempts a graceful shutdown.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return r.Shutdown(shutdownCtx)
}

// Shutdown stops accepting triggers, waits for in-flight jobs up to the
// context deadline, then stops the collectors and releases resources.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.gaugeStopCh != nil {
		close(r.gaugeStopCh)
		r.gaugeStopCh = nil
	}

	if err := r.scheduler.Stop(ctx); err != nil {
		errs = append(errs, err)
	}

	for _, col := range r.collectors {
		if err := col.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop collector %s: %w", col.Name(), err))
		}
	}

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
		r.metricsSrv = nil
	}

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
		r.db = nil
	}

	return errors.Join(errs...)
}

func (r *Runtime) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{
		Addr:    r.cfg.Core.MetricsAddr,
		Handler: mux,
	}

	go func() {
		if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()

	r.gaugeStopCh = make(chan struct{})
	go r.recordStoreGauge(r.gaugeStopCh, time.Second)
}

func (r *Runtime) recordStoreGauge(stop <-chan struct{}, interval time.Duration) {
	sized, ok := r.agg.(interface{ Len() int })
	if !ok {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.obs.SetGauge("reportagent_store_points", float64(sized.Len()))
		}
	}
}

// meteredIngestor counts every accepted point before forwarding it.
type meteredIngestor struct {
	agg ports.Aggregator
	obs ports.Observability
}

func (m *meteredIngestor) Add(source string, payload any) {
	m.agg.Add(source, payload)
	m.obs.IncCounter("reportagent_datapoints_ingested_total", 1)
}
