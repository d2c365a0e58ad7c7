package sched

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

type mockObs struct {
	mu    sync.Mutex
	infos []string
	errs  []string
}

func (m *mockObs) LogInfo(msg string, fields ...ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockObs) LogError(msg string, err error, fields ...ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, msg)
}

func (m *mockObs) LogCritical(msg string, err error, fields ...ports.Field) {
	m.LogError(msg, err, fields...)
}

func (m *mockObs) IncCounter(name string, v float64)        {}
func (m *mockObs) ObserveLatency(name string, sec float64)  {}
func (m *mockObs) SetGauge(name string, v float64)          {}

func (m *mockObs) infoCount(msg string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, got := range m.infos {
		if got == msg {
			n++
		}
	}
	return n
}

func TestRegisterRejectsDuplicateID(t *testing.T) {
	s := New(&mockObs{})

	job := Job{ID: "daily_report_job", Trigger: IntervalTrigger{Every: time.Hour}, Run: func() {}}
	if err := s.Register(job); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := s.Register(job); !errors.Is(err, ErrDuplicateJob) {
		t.Fatalf("expected ErrDuplicateJob, got %v", err)
	}
	if ids := s.JobIDs(); len(ids) != 1 || ids[0] != "daily_report_job" {
		t.Fatalf("first registration should remain intact, got %v", ids)
	}
}

func TestSchedulerFiresIntervalJob(t *testing.T) {
	s := New(&mockObs{})
	s.SetTick(5 * time.Millisecond)

	var runs atomic.Int32
	err := s.Register(Job{
		ID:      "ticker",
		Trigger: IntervalTrigger{Every: 10 * time.Millisecond},
		Run:     func() { runs.Add(1) },
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(120 * time.Millisecond)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if runs.Load() < 2 {
		t.Fatalf("expected at least 2 runs, got %d", runs.Load())
	}
}

func TestSchedulerSkipsOverlappingRunsPerJob(t *testing.T) {
	obs := &mockObs{}
	s := New(obs)
	s.SetTick(5 * time.Millisecond)

	release := make(chan struct{})
	var slowRuns atomic.Int32
	var fastRuns atomic.Int32

	if err := s.Register(Job{
		ID:      "slow",
		Trigger: IntervalTrigger{Every: 10 * time.Millisecond},
		Run: func() {
			slowRuns.Add(1)
			<-release
		},
	}); err != nil {
		t.Fatalf("register slow: %v", err)
	}
	if err := s.Register(Job{
		ID:      "fast",
		Trigger: IntervalTrigger{Every: 10 * time.Millisecond},
		Run:     func() { fastRuns.Add(1) },
	}); err != nil {
		t.Fatalf("register fast: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(120 * time.Millisecond)

	if got := slowRuns.Load(); got != 1 {
		t.Fatalf("blocked job must not be restarted, got %d runs", got)
	}
	if fastRuns.Load() < 2 {
		t.Fatalf("other jobs must keep firing, got %d runs", fastRuns.Load())
	}
	if obs.infoCount("job_skipped_running") == 0 {
		t.Fatalf("expected skip-if-running to be logged")
	}

	close(release)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestSchedulerRecoversFromJobPanic(t *testing.T) {
	obs := &mockObs{}
	s := New(obs)
	s.SetTick(5 * time.Millisecond)

	var after atomic.Int32
	if err := s.Register(Job{
		ID:      "panicky",
		Trigger: IntervalTrigger{Every: 10 * time.Millisecond},
		Run: func() {
			if after.Add(1) == 1 {
				panic("boom")
			}
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(120 * time.Millisecond)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if after.Load() < 2 {
		t.Fatalf("job should fire again after a panic, got %d runs", after.Load())
	}
	obs.mu.Lock()
	defer obs.mu.Unlock()
	found := false
	for _, msg := range obs.errs {
		if msg == "job_panicked" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the panic to be logged")
	}
}

func TestStopWaitsForInflightJobs(t *testing.T) {
	s := New(&mockObs{})
	s.SetTick(5 * time.Millisecond)

	var finished atomic.Bool
	if err := s.Register(Job{
		ID:      "inflight",
		Trigger: IntervalTrigger{Every: 10 * time.Millisecond},
		Run: func() {
			time.Sleep(50 * time.Millisecond)
			finished.Store(true)
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !finished.Load() {
		t.Fatalf("stop returned before the in-flight job completed")
	}
}

func TestStopHonoursDeadline(t *testing.T) {
	s := New(&mockObs{})
	s.SetTick(5 * time.Millisecond)

	release := make(chan struct{})
	defer close(release)
	if err := s.Register(Job{
		ID:      "stuck",
		Trigger: IntervalTrigger{Every: 10 * time.Millisecond},
		Run:     func() { <-release },
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Stop(ctx); err == nil {
		t.Fatalf("expected Stop to report the stuck job")
	}
}
