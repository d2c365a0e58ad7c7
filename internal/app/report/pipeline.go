package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/qiaoxuchen/auto-report-agent/internal/domain"
	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// Step names how far a single run got. Every run reaches a terminal step;
// faults along the way are folded into the RunReport, never thrown back at
// the scheduler.
type Step int

const (
	StepWindowResolved Step = iota
	StepDataExtracted
	StepPromptBuilt
	StepSummarized
	StepPersisted
	StepDelivered
	StepDone
)

// RunReport describes the terminal state of one pipeline invocation.
type RunReport struct {
	Step         Step
	Outcome      ports.Outcome
	ArtifactPath string
	Err          error
}

// Pipeline turns a time window of aggregated data into a persisted,
// delivered report artifact.
type Pipeline struct {
	agg      ports.Aggregator
	sum      ports.Summarizer
	stores   []ports.ArtifactStore
	notifier ports.Notifier
	reg      *Registry
	obs      ports.Observability
	now      func() time.Time
}

// New wires the pipeline. The first artifact store is the primary one: its
// failure ends the run; any additional stores are best-effort mirrors.
func New(agg ports.Aggregator, sum ports.Summarizer, notifier ports.Notifier,
	obs ports.Observability, stores ...ports.ArtifactStore) *Pipeline {
	return &Pipeline{
		agg:      agg,
		sum:      sum,
		stores:   stores,
		notifier: notifier,
		reg:      NewRegistry(),
		obs:      obs,
		now:      time.Now,
	}
}

// SetClock overrides window resolution time; a test seam.
func (p *Pipeline) SetClock(now func() time.Time) {
	if now != nil {
		p.now = now
	}
}

// Formatters exposes the registry so callers can add source-specific formatters.
func (p *Pipeline) Formatters() *Registry { return p.reg }

// Run executes one report generation end to end. It never panics and never
// returns an error to the caller; the RunReport carries the terminal state.
func (p *Pipeline) Run(ctx context.Context, reportType, description string) RunReport {
	period := domain.ReportPeriod(reportType)
	window := domain.WindowEndingAt(period, p.now())
	rep := RunReport{Step: StepWindowResolved, Outcome: ports.OutcomeOK}

	points := p.agg.RawSince(window.Start)
	rep.Step = StepDataExtracted

	var body string
	if countPoints(points) == 0 {
		body = noActivityBody(reportType, window)
	} else {
		prompt := p.buildPrompt(description, window, points)
		rep.Step = StepPromptBuilt

		start := time.Now()
		result := p.sum.Summarize(ctx, prompt)
		p.obs.ObserveLatency("reportagent_summarize_latency_seconds", time.Since(start).Seconds())
		rep.Step = StepSummarized
		rep.Outcome = result.Outcome

		if result.Outcome == ports.OutcomeOK {
			body = result.Text
		} else {
			p.obs.LogError("summarization_failed", result.Err,
				ports.Field{Key: "report_type", Value: reportType},
				ports.Field{Key: "outcome", Value: result.Outcome.String()})
			p.obs.IncCounter("reportagent_report_failures_total", 1)
			body = fallbackBody(reportType, window, result)
		}
	}

	artifact := domain.Artifact{
		ReportType:  reportType,
		GeneratedAt: p.now(),
		Body:        body,
	}

	path, err := p.persist(artifact)
	if err != nil {
		p.obs.LogError("report_persist_failed", err,
			ports.Field{Key: "report_type", Value: reportType})
		p.obs.IncCounter("reportagent_report_failures_total", 1)
		rep.Err = err
		return rep
	}
	rep.Step = StepPersisted
	rep.ArtifactPath = path
	p.obs.IncCounter("reportagent_reports_generated_total", 1)

	subject := fmt.Sprintf("[auto-report] %s - %s", description, artifact.GeneratedAt.Format("2006-01-02"))
	if err := p.notifier.Send(subject, body); err != nil {
		// Delivery failure never rolls back persistence.
		p.obs.LogError("report_delivery_failed", err,
			ports.Field{Key: "report_type", Value: reportType})
		rep.Step = StepDone
		rep.Err = err
		return rep
	}
	rep.Step = StepDone
	p.obs.IncCounter("reportagent_deliveries_total", 1)

	p.obs.LogInfo("report_completed",
		ports.Field{Key: "report_type", Value: reportType},
		ports.Field{Key: "artifact", Value: path})
	return rep
}

func (p *Pipeline) persist(a domain.Artifact) (string, error) {
	if len(p.stores) == 0 {
		return "", fmt.Errorf("no artifact store configured")
	}
	path, err := p.stores[0].Save(a)
	if err != nil {
		return "", fmt.Errorf("%s store: %w", p.stores[0].Name(), err)
	}
	for _, mirror := range p.stores[1:] {
		if _, err := mirror.Save(a); err != nil {
			p.obs.LogError("artifact_mirror_failed", err,
				ports.Field{Key: "store", Value: mirror.Name()})
		}
	}
	return path, nil
}

func (p *Pipeline) buildPrompt(description string, w domain.TimeWindow, points map[string][]domain.DataPoint) string {
	sources := make([]string, 0, len(points))
	for source := range points {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional work summary assistant. Using the activity data recorded between %s and %s, write a %s for the user.\n\nData grouped by source:\n",
		w.Start.Format("2006-01-02 15:04:05"), w.End.Format("2006-01-02 15:04:05"), description)

	for _, source := range sources {
		fmt.Fprintf(&b, "\n--- source: %s ---\n", source)
		for _, point := range points[source] {
			b.WriteString(p.reg.Format(point))
			b.WriteString("\n\n")
		}
	}

	fmt.Fprintf(&b, `
Based on the data above, produce a clearly structured %s with these sections:

1. Main activities: the principal work carried out in this period.
2. Key results: finished tasks and notable progress.
3. Issues encountered (optional, only if the data shows any).
4. Next steps (optional).

Stay factual: summarize only what the data supports and do not invent events. Output plain text without markup.
`, description)

	return b.String()
}

func countPoints(points map[string][]domain.DataPoint) int {
	n := 0
	for _, ps := range points {
		n += len(ps)
	}
	return n
}

func noActivityBody(reportType string, w domain.TimeWindow) string {
	return fmt.Sprintf("%s report (%s to %s): no activity in this period.",
		reportType,
		w.Start.Format("2006-01-02 15:04:05"),
		w.End.Format("2006-01-02 15:04:05"))
}

func fallbackBody(reportType string, w domain.TimeWindow, result ports.SummaryResult) string {
	reason := "unknown"
	if result.Err != nil {
		reason = result.Err.Error()
	}
	return fmt.Sprintf(
		"SUMMARY UNAVAILABLE\n\n%s report covering %s to %s.\nThe summarization service failed (%s): %s\nThe collected data remains in the aggregator; this artifact records the failed attempt.",
		reportType,
		w.Start.Format("2006-01-02 15:04:05"),
		w.End.Format("2006-01-02 15:04:05"),
		result.Outcome.String(),
		reason)
}
