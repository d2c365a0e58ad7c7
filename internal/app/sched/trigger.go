package sched

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrBadSchedule marks a cron expression the registry refuses to accept.
var ErrBadSchedule = errors.New("sched: invalid cron schedule")

// Trigger computes when a job is next due. Interval and cron schedules are
// the two variants evaluated by the same tick loop.
type Trigger interface {
	Next(after time.Time) time.Time
}

// IntervalTrigger fires every fixed duration.
type IntervalTrigger struct {
	Every time.Duration
}

func (t IntervalTrigger) Next(after time.Time) time.Time {
	return after.Add(t.Every)
}

// CronTrigger fires on a standard 5-field cron expression
// (minute hour day month day-of-week).
type CronTrigger struct {
	expr  string
	sched cron.Schedule
}

// NewCronTrigger validates the field count before handing the expression to
// the cron parser. A wrong field count is a configuration error for that one
// job, not for the whole registry.
func NewCronTrigger(expr string) (CronTrigger, error) {
	if len(strings.Fields(expr)) != 5 {
		return CronTrigger{}, fmt.Errorf("%w: %q must have exactly 5 fields", ErrBadSchedule, expr)
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return CronTrigger{}, fmt.Errorf("%w: %q: %v", ErrBadSchedule, expr, err)
	}
	return CronTrigger{expr: expr, sched: sched}, nil
}

func (t CronTrigger) Next(after time.Time) time.Time {
	return t.sched.Next(after)
}

func (t CronTrigger) String() string { return t.expr }
