package sched

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// ErrDuplicateJob marks a second registration under an already-taken id.
var ErrDuplicateJob = errors.New("sched: duplicate job id")

// Job is one scheduled unit of work in the registry.
type Job struct {
	ID          string
	Description string
	Trigger     Trigger
	Run         func()
}

type entry struct {
	job     Job
	next    time.Time
	running bool
}

// Scheduler is a job table evaluated by a single tick loop. Due jobs run in
// their own goroutines so one job's lateness never delays another; a job
// whose previous run is still in flight is skipped, per id.
type Scheduler struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string

	obs     ports.Observability
	tick    time.Duration
	now     func() time.Time
	started bool
	stopCh  chan struct{}
	loopWg  sync.WaitGroup
	jobWg   sync.WaitGroup
}

func New(obs ports.Observability) *Scheduler {
	return &Scheduler{
		entries: make(map[string]*entry),
		obs:     obs,
		tick:    time.Second,
		now:     time.Now,
	}
}

// SetTick overrides the evaluation interval; mostly a test seam.
func (s *Scheduler) SetTick(d time.Duration) {
	if d > 0 {
		s.tick = d
	}
}

// SetClock overrides the time source; mostly a test seam.
func (s *Scheduler) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Register adds a job to the table. Duplicate ids are rejected and leave the
// first registration intact.
func (s *Scheduler) Register(job Job) error {
	if job.ID == "" {
		return fmt.Errorf("sched: job id is required")
	}
	if job.Trigger == nil {
		return fmt.Errorf("sched: job %q has no trigger", job.ID)
	}
	if job.Run == nil {
		return fmt.Errorf("sched: job %q has no callback", job.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[job.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateJob, job.ID)
	}
	s.entries[job.ID] = &entry{job: job, next: job.Trigger.Next(s.now())}
	s.order = append(s.order, job.ID)
	return nil
}

// JobIDs returns the registered ids in registration order.
func (s *Scheduler) JobIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Start launches the tick loop. Registering after Start is not supported.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("sched: already started")
	}
	s.started = true
	s.stopCh = make(chan struct{})

	s.loopWg.Add(1)
	go s.loop()
	return nil
}

func (s *Scheduler) loop() {
	defer s.loopWg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.fireDue()
		}
	}
}

func (s *Scheduler) fireDue() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		e := s.entries[id]
		if now.Before(e.next) {
			continue
		}
		e.next = e.job.Trigger.Next(now)

		if e.running {
			s.obs.LogInfo("job_skipped_running", ports.Field{Key: "job", Value: id})
			continue
		}
		e.running = true
		s.jobWg.Add(1)
		go s.runJob(e)
	}
}

func (s *Scheduler) runJob(e *entry) {
	defer s.jobWg.Done()
	defer func() {
		if r := recover(); r != nil {
			s.obs.LogCritical("job_panicked", fmt.Errorf("%v", r),
				ports.Field{Key: "job", Value: e.job.ID})
		}
		s.mu.Lock()
		e.running = false
		s.mu.Unlock()
	}()

	e.job.Run()
}

// Stop halts the tick loop and waits for in-flight jobs until the context
// expires. No new triggers fire after Stop returns.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	s.loopWg.Wait()

	done := make(chan struct{})
	go func() {
		s.jobWg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sched: jobs still running at shutdown: %w", ctx.Err())
	}
}
