package ports

import (
	"time"

	"github.com/qiaoxuchen/auto-report-agent/internal/domain"
)

// Ingestor is the write side of the aggregator, the only surface collectors see.
type Ingestor interface {
	Add(source string, payload any)
}

// Aggregator is the shared time-indexed store. Writers append through Add;
// readers always receive independent copies.
type Aggregator interface {
	Ingestor

	// Since returns the payloads recorded for source with timestamp >= t,
	// in insertion order. Unknown sources yield an empty slice.
	Since(source string, t time.Time) []any

	// All returns a snapshot of every source's points. Later writes must not
	// mutate a previously returned snapshot.
	All() map[string][]domain.DataPoint

	// RawSince returns timestamped points across all sources with
	// timestamp >= t, in insertion order per source.
	RawSince(t time.Time) map[string][]domain.DataPoint
}
