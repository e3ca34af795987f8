// journal/journal.go
package journal

import "time"

// RunRecord summarizes one scan or replay pass over a bar series.
type RunRecord struct {
	RunID      string
	Instrument string
	Timeframe  string
	Start      time.Time
	End        time.Time
	Bars       int

	// Countdowns that clamped at the target during the run.
	Completed int

	// A countdown left open at the end of data: the pattern is pending,
	// not failed. Direction is its side (+1 sell, -1 buy), 0 when closed.
	Open      bool
	Direction int
}

// AnnotationRecord is one label event as journaled.
type AnnotationRecord struct {
	RunID string
	Index int
	Time  time.Time
	Kind  string // "setup" or "countdown"
	Count int    // signed counter value
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordAnnotation(AnnotationRecord) error
	Close() error
}
