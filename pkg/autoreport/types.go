package autoreport

import (
	"github.com/qiaoxuchen/auto-report-agent/internal/app/sched"
	"github.com/qiaoxuchen/auto-report-agent/internal/domain"
	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// DataPoint is one source-tagged, timestamped record in the aggregator.
type DataPoint = domain.DataPoint

// TimeWindow is the interval a report is computed over.
type TimeWindow = domain.TimeWindow

// ReportPeriod names the span a report covers (daily, weekly, ...).
type ReportPeriod = domain.ReportPeriod

// Artifact is the finished report text for one pipeline run.
type Artifact = domain.Artifact

// Ingestor is the write-only aggregator surface handed to collectors.
type Ingestor = ports.Ingestor

// Aggregator is the shared time-indexed store.
type Aggregator = ports.Aggregator

// Collector is any producer that pushes data points into the aggregator.
type Collector = ports.Collector

// Summarizer turns a composite prompt into report prose.
type Summarizer = ports.Summarizer

// SummaryResult carries the summarizer's text or its classified failure.
type SummaryResult = ports.SummaryResult

// Outcome classifies a summarization attempt.
type Outcome = ports.Outcome

// Outcome values.
const (
	OutcomeOK             = ports.OutcomeOK
	OutcomeTransportFault = ports.OutcomeTransportFault
	OutcomeParseFault     = ports.OutcomeParseFault
)

// Notifier delivers finished reports.
type Notifier = ports.Notifier

// ArtifactStore persists finished reports.
type ArtifactStore = ports.ArtifactStore

// Observability emits logs and metrics for the runtime.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// Job is one scheduled unit of work.
type Job = sched.Job

// Trigger computes when a job is next due.
type Trigger = sched.Trigger

// IntervalTrigger fires every fixed duration.
type IntervalTrigger = sched.IntervalTrigger

// CronTrigger fires on a 5-field cron expression.
type CronTrigger = sched.CronTrigger

// Scheduler errors re-exported for callers that register their own jobs.
var (
	ErrDuplicateJob = sched.ErrDuplicateJob
	ErrBadSchedule  = sched.ErrBadSchedule
)

// NewCronTrigger validates and parses a 5-field cron expression.
func NewCronTrigger(expr string) (CronTrigger, error) {
	return sched.NewCronTrigger(expr)
}
