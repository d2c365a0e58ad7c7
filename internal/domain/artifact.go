package domain

import "time"

// Artifact is the finished report text for one pipeline run, keyed by the
// report type and the instant it was generated.
type Artifact struct {
	ReportType  string
	GeneratedAt time.Time
	Body        string
}
