package scheduler

import "time"

// Event represents a pending trigger in the scheduler heap.
// It is an in-memory only type — the heap is rebuilt on daemon restart.
type Event struct {
	// Name identifies the job to run when TriggerAt is reached.
	Name string
	// TriggerAt is the wall-clock time when the job should fire.
	TriggerAt time.Time
	// CronExpr is the cron expression for recurring jobs.
	// Empty string means one-shot — no re-scheduling after firing.
	CronExpr string
}
