package store

import (
	"sync"
	"time"

	"github.com/qiaoxuchen/auto-report-agent/internal/domain"
	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// MemStore is the in-memory aggregator shared by all collectors and the
// report pipeline. Per-source insertion order is preserved; timestamps are
// assigned here, never by callers. Append-only, no eviction.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]domain.DataPoint
	now  func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		data: make(map[string][]domain.DataPoint),
		now:  time.Now,
	}
}

// NewMemStoreWithClock lets tests control timestamp assignment.
func NewMemStoreWithClock(now func() time.Time) *MemStore {
	s := NewMemStore()
	if now != nil {
		s.now = now
	}
	return s
}

func (s *MemStore) Add(source string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[source] = append(s.data[source], domain.DataPoint{
		Source:    source,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func (s *MemStore) Since(source string, t time.Time) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := s.data[source]
	out := make([]any, 0, len(points))
	for _, p := range points {
		if !p.Timestamp.Before(t) {
			out = append(out, p.Payload)
		}
	}
	return out
}

func (s *MemStore) All() map[string][]domain.DataPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]domain.DataPoint, len(s.data))
	for source, points := range s.data {
		cp := make([]domain.DataPoint, len(points))
		copy(cp, points)
		out[source] = cp
	}
	return out
}

func (s *MemStore) RawSince(t time.Time) map[string][]domain.DataPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]domain.DataPoint)
	for source, points := range s.data {
		var filtered []domain.DataPoint
		for _, p := range points {
			if !p.Timestamp.Before(t) {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) > 0 {
			out[source] = filtered
		}
	}
	return out
}

// Len reports the total number of stored points across all sources.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, points := range s.data {
		n += len(points)
	}
	return n
}

var _ ports.Aggregator = (*MemStore)(nil)
