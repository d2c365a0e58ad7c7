package domain

import "time"

// ReportPeriod names the span a report covers.
type ReportPeriod string

const (
	PeriodDaily     ReportPeriod = "daily"
	PeriodWeekly    ReportPeriod = "weekly"
	PeriodMonthly   ReportPeriod = "monthly"
	PeriodQuarterly ReportPeriod = "quarterly"
	PeriodYearly    ReportPeriod = "yearly"
)

// Offset returns the lookback for the period. Month, quarter and year use
// fixed-day approximations rather than calendar arithmetic; an unknown
// period falls back to the daily lookback.
func (p ReportPeriod) Offset() time.Duration {
	switch p {
	case PeriodWeekly:
		return 7 * 24 * time.Hour
	case PeriodMonthly:
		return 30 * 24 * time.Hour
	case PeriodQuarterly:
		return 90 * 24 * time.Hour
	case PeriodYearly:
		return 365 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// TimeWindow is the [Start, End) interval a report is computed over.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// WindowEndingAt resolves the period's window against the given end instant.
func WindowEndingAt(p ReportPeriod, end time.Time) TimeWindow {
	return TimeWindow{Start: end.Add(-p.Offset()), End: end}
}
