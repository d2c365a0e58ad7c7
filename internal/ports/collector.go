package ports

// Collector is any producer that pushes data points into the aggregator.
// Start must not block; Stop releases the collector's resources.
type Collector interface {
	Start(sink Ingestor) error
	Stop() error
	Name() string
}
