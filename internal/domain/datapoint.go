package domain

import "time"

// DataPoint is one source-tagged activity record held by the aggregator.
// The timestamp is assigned by the store at insertion time and never changes.
type DataPoint struct {
	Source    string    `json:"source"`
	Timestamp time.Time `json:"ts"`
	Payload   any       `json:"payload"`
}
