// Package stream runs the indicator engine behind an incremental feed:
// one consumer, strict bar order, annotations journaled as they appear.
package stream

import (
	"fmt"
	"time"

	"github.com/rustyeddy/sequential/annotate"
	"github.com/rustyeddy/sequential/indicators"
	"github.com/rustyeddy/sequential/journal"
	"github.com/rustyeddy/sequential/market"
	"github.com/rustyeddy/sequential/pkg/id"
	"go.uber.org/zap"
)

// Options configures a streaming run.
type Options struct {
	Engine     indicators.Config
	Instrument string
	Timeframe  string

	// MinSetup is the label threshold; 0 means annotate.DefaultMinSetup.
	MinSetup int
}

// Summary is what a finished (or stopped) run reports.
type Summary struct {
	RunID       string
	Bars        int
	Annotations int
	Completed   int
	Pattern     indicators.PatternState
	Direction   int
}

// Engine consumes bars one at a time, feeds the sequential recurrence, and
// journals each new label event. It implements replay.BarHandler and is
// safe as the single consumer behind a sequential feed queue; it has no
// internal locking and must not be shared across goroutines.
type Engine struct {
	seq *indicators.Sequential
	jnl journal.Journal
	log *zap.Logger

	runID      string
	instrument string
	timeframe  string
	minSetup   int

	start, end    time.Time
	bars          int
	annotations   int
	lastSetup     int
	lastCountdown int
	wasActive     bool
}

func NewEngine(opts Options, jnl journal.Journal, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	minSetup := opts.MinSetup
	if minSetup <= 0 {
		minSetup = annotate.DefaultMinSetup
	}

	return &Engine{
		seq:        indicators.NewSequential(opts.Engine),
		jnl:        jnl,
		log:        log,
		runID:      id.New(),
		instrument: opts.Instrument,
		timeframe:  opts.Timeframe,
		minSetup:   minSetup,
	}
}

func (e *Engine) RunID() string {
	return e.runID
}

// OnBar advances the recurrence by one bar. Out-of-order bars fail the run;
// the engine state and everything journaled so far stay intact.
func (e *Engine) OnBar(b market.Bar) error {
	snap, err := e.seq.Update(b)
	if err != nil {
		e.log.Error("bar rejected",
			zap.String("run", e.runID),
			zap.Time("bar_time", b.Time),
			zap.Error(err))
		return err
	}

	if e.bars == 0 {
		e.start = b.Time
	}
	e.end = b.Time
	e.bars++

	// Same predicate the batch deriver uses, applied online.
	if snap.Setup != e.lastSetup && snap.Setup != 0 && absInt(snap.Setup) >= e.minSetup {
		if err := e.record(snap, "setup", snap.Setup); err != nil {
			return err
		}
	}
	if snap.Countdown != e.lastCountdown && snap.Countdown != 0 {
		if err := e.record(snap, "countdown", snap.Countdown); err != nil {
			return err
		}
	}

	if e.wasActive && !snap.InCountdown {
		e.log.Info("countdown complete",
			zap.String("run", e.runID),
			zap.Int("index", snap.Index),
			zap.Int("count", snap.Countdown))
	}
	if !e.wasActive && snap.InCountdown {
		e.log.Info("countdown armed",
			zap.String("run", e.runID),
			zap.Int("index", snap.Index),
			zap.Int("direction", snap.Direction))
	}

	e.lastSetup = snap.Setup
	e.lastCountdown = snap.Countdown
	e.wasActive = snap.InCountdown
	return nil
}

func (e *Engine) record(snap indicators.Snapshot, kind string, count int) error {
	rec := journal.AnnotationRecord{
		RunID: e.runID,
		Index: snap.Index,
		Time:  snap.Time,
		Kind:  kind,
		Count: count,
	}
	if err := e.jnl.RecordAnnotation(rec); err != nil {
		return fmt.Errorf("journal annotation: %w", err)
	}
	e.annotations++

	e.log.Debug("annotation",
		zap.String("run", e.runID),
		zap.Int("index", snap.Index),
		zap.String("kind", kind),
		zap.Int("count", count))
	return nil
}

// Finish writes the run record and reports the terminal pattern state.
// An open countdown is reported as in progress — a pending pattern, not a
// failure.
func (e *Engine) Finish() (Summary, error) {
	sum := Summary{
		RunID:       e.runID,
		Bars:        e.bars,
		Annotations: e.annotations,
	}

	pattern, err := e.seq.Pattern()
	if err != nil {
		// Not enough bars arrived to say anything about countdowns.
		e.log.Warn("run ended inside warmup",
			zap.String("run", e.runID),
			zap.Int("bars", e.bars))
		return sum, err
	}
	sum.Pattern = pattern
	sum.Direction = e.seq.Direction()
	sum.Completed = e.seq.CompletedCountdowns()

	if pattern == indicators.PatternInProgress {
		e.log.Info("countdown still in progress at end of data",
			zap.String("run", e.runID),
			zap.Int("direction", sum.Direction),
			zap.Int("count", e.seq.Countdown()))
	}

	rec := journal.RunRecord{
		RunID:      e.runID,
		Instrument: e.instrument,
		Timeframe:  e.timeframe,
		Start:      e.start,
		End:        e.end,
		Bars:       e.bars,
		Completed:  sum.Completed,
		Open:       pattern == indicators.PatternInProgress,
		Direction:  sum.Direction,
	}
	if err := e.jnl.RecordRun(rec); err != nil {
		return sum, fmt.Errorf("journal run: %w", err)
	}

	e.log.Info("run recorded",
		zap.String("run", e.runID),
		zap.Int("bars", e.bars),
		zap.Int("annotations", e.annotations),
		zap.String("pattern", pattern.String()))
	return sum, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
