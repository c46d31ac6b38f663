// Package scheduler provides timer scheduling for the solw daemon.
// It implements a single-goroutine scheduler using a min-heap of Events
// sorted by trigger time, with a 60-second max-sleep-cap to handle NTP steps,
// DST transitions, and system sleep (macOS monotonic clock pause).
//
// The daemon uses it for the periodic timetable refresh (a recurring cron
// event) and for one-shot connectivity retries. Events carry only a name;
// the OnTrigger callback dispatches on it. Nothing is persisted — the heap
// is rebuilt on daemon restart.
package scheduler
