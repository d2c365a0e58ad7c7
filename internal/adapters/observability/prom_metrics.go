package observability

import (
	"fmt"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs() *PromObs {
	ingested := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reportagent_datapoints_ingested_total",
		Help: "Total data points accepted into the aggregator.",
	})
	reports := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reportagent_reports_generated_total",
		Help: "Total report artifacts persisted (summaries and fallbacks).",
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reportagent_report_failures_total",
		Help: "Report runs that ended in a fallback or persistence failure.",
	})
	deliveries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reportagent_deliveries_total",
		Help: "Report artifacts handed to the notifier successfully.",
	})
	storedPoints := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "reportagent_store_points",
		Help: "Current number of data points held by the aggregator.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reportagent_summarize_latency_seconds",
		Help:    "Wall time of one summarizer round trip.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	prometheus.MustRegister(ingested, reports, failures, deliveries, storedPoints, latency)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"reportagent_datapoints_ingested_total": ingested,
			"reportagent_reports_generated_total":   reports,
			"reportagent_report_failures_total":     failures,
			"reportagent_deliveries_total":          deliveries,
		},
		gauges: map[string]prometheus.Gauge{
			"reportagent_store_points": storedPoints,
		},
		histos: map[string]prometheus.Observer{
			"reportagent_summarize_latency_seconds": latency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	log.Printf("INFO: %s%s", msg, formatFields(fields))
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v%s", msg, err, formatFields(fields))
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("CRITICAL: %s: %v%s", msg, err, formatFields(fields))
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func formatFields(fields []ports.Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}
