package store

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemStoreSinceFiltersAndKeepsOrder(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	s := NewMemStoreWithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	s.Add("file", "A") // 12:01
	s.Add("file", "B") // 12:02
	s.Add("file", "C") // 12:03

	got := s.Since("file", base.Add(2*time.Minute))
	if len(got) != 2 || got[0] != "B" || got[1] != "C" {
		t.Fatalf("expected [B C], got %v", got)
	}

	all := s.Since("file", base)
	if len(all) != 3 || all[0] != "A" || all[2] != "C" {
		t.Fatalf("expected all three points in insertion order, got %v", all)
	}
}

func TestMemStoreSinceUnknownSource(t *testing.T) {
	s := NewMemStore()
	if got := s.Since("nope", time.Time{}); len(got) != 0 {
		t.Fatalf("expected empty slice for unknown source, got %v", got)
	}
}

func TestMemStoreTimestampAssignedAtInsertion(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := NewMemStoreWithClock(func() time.Time { return fixed })

	s.Add("screen", map[string]any{"filename": "shot.png"})

	all := s.All()
	if len(all["screen"]) != 1 {
		t.Fatalf("expected one point, got %d", len(all["screen"]))
	}
	if !all["screen"][0].Timestamp.Equal(fixed) {
		t.Fatalf("expected store-assigned timestamp %s, got %s", fixed, all["screen"][0].Timestamp)
	}
}

func TestMemStoreAllReturnsIndependentSnapshot(t *testing.T) {
	s := NewMemStore()
	s.Add("file", "A")

	snap := s.All()
	s.Add("file", "B")

	if len(snap["file"]) != 1 {
		t.Fatalf("snapshot mutated by later write: %v", snap["file"])
	}
	if len(s.All()["file"]) != 2 {
		t.Fatalf("expected two points in a fresh snapshot")
	}
}

func TestMemStoreRawSinceGroupsBySource(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	s := NewMemStoreWithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	s.Add("file", "old")     // 12:01
	s.Add("document", "doc") // 12:02
	s.Add("file", "new")     // 12:03

	raw := s.RawSince(base.Add(2 * time.Minute))
	if len(raw) != 2 {
		t.Fatalf("expected two sources, got %d", len(raw))
	}
	if len(raw["file"]) != 1 || raw["file"][0].Payload != "new" {
		t.Fatalf("expected only the newer file point, got %v", raw["file"])
	}
	if raw["file"][0].Timestamp.IsZero() {
		t.Fatalf("raw points must carry their timestamps")
	}
	if len(raw["document"]) != 1 {
		t.Fatalf("expected the document point, got %v", raw["document"])
	}
}

func TestMemStoreConcurrentWritersLoseNothing(t *testing.T) {
	const writers = 8
	const perWriter = 200

	s := NewMemStore()
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			source := fmt.Sprintf("source-%d", w)
			for i := 0; i < perWriter; i++ {
				s.Add(source, i)
			}
		}(w)
	}
	wg.Wait()

	if s.Len() != writers*perWriter {
		t.Fatalf("expected %d points, got %d", writers*perWriter, s.Len())
	}
	for w := 0; w < writers; w++ {
		points := s.All()[fmt.Sprintf("source-%d", w)]
		if len(points) != perWriter {
			t.Fatalf("writer %d: expected %d points, got %d", w, perWriter, len(points))
		}
		for i, p := range points {
			if p.Payload != i {
				t.Fatalf("writer %d: point %d out of order: %v", w, i, p.Payload)
			}
		}
	}
}

func TestMemStoreConcurrentReadDuringWrites(t *testing.T) {
	s := NewMemStore()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			s.Add("file", i)
		}
	}()

	for i := 0; i < 100; i++ {
		snap := s.All()["file"]
		for j, p := range snap {
			if p.Payload != j {
				t.Fatalf("snapshot saw a partial prefix: index %d holds %v", j, p.Payload)
			}
		}
	}
	<-done
}
