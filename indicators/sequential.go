package indicators

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/sequential/market"
)

// Conventional TD Sequential parameters.
const (
	DefaultSetupLookback     = 4
	DefaultSetupTarget       = 9
	DefaultCountdownLookback = 2
	DefaultCountdownTarget   = 13
)

// ErrInsufficientHistory is returned by queries that need more bars than
// the engine has seen. Setup values inside the warmup window are defined
// as 0, not an error; only explicit completion queries fail.
var ErrInsufficientHistory = errors.New("insufficient history")

// Config parameterizes the recurrence. Zero values mean the conventional
// 4/9 setup and 2/13 countdown.
type Config struct {
	SetupLookback     int `json:"setup_lookback" yaml:"setup_lookback"`
	SetupTarget       int `json:"setup_target" yaml:"setup_target"`
	CountdownLookback int `json:"countdown_lookback" yaml:"countdown_lookback"`
	CountdownTarget   int `json:"countdown_target" yaml:"countdown_target"`
}

func (c Config) withDefaults() Config {
	if c.SetupLookback <= 0 {
		c.SetupLookback = DefaultSetupLookback
	}
	if c.SetupTarget <= 0 {
		c.SetupTarget = DefaultSetupTarget
	}
	if c.CountdownLookback <= 0 {
		c.CountdownLookback = DefaultCountdownLookback
	}
	if c.CountdownTarget <= 0 {
		c.CountdownTarget = DefaultCountdownTarget
	}
	return c
}

// Snapshot is the engine state after one bar.
type Snapshot struct {
	Index       int
	Time        time.Time
	Setup       int
	Countdown   int
	InCountdown bool
	Direction   int
}

// PatternState classifies the countdown at the current end of input.
type PatternState int

const (
	// PatternNone: no countdown has been armed or finished.
	PatternNone PatternState = iota
	// PatternInProgress: a countdown is open; the caller should treat it
	// as pending, not as a completed signal.
	PatternInProgress
	// PatternComplete: the most recent countdown clamped at its target.
	PatternComplete
)

func (p PatternState) String() string {
	switch p {
	case PatternInProgress:
		return "in progress"
	case PatternComplete:
		return "complete"
	default:
		return "none"
	}
}

// Sequential is the canonical setup/countdown recurrence, consumed one bar
// at a time. Both counters run in parallel: the setup keeps counting while
// a countdown is open, and a countdown is armed the instant the setup
// clamps at its target while no countdown is active.
//
// Memory is O(1): only the lookback windows and the previous counter state
// are retained, so the engine serves equally as a batch pass and as the
// single consumer behind a live 15-minute feed.
type Sequential struct {
	cfg       Config
	setup     *Setup
	countdown *Countdown

	idx      int
	lastTime time.Time
}

func NewSequential(cfg Config) *Sequential {
	cfg = cfg.withDefaults()
	return &Sequential{
		cfg:       cfg,
		setup:     NewSetup(cfg.SetupLookback, cfg.SetupTarget),
		countdown: NewCountdown(cfg.CountdownLookback, cfg.CountdownTarget),
	}
}

func (q *Sequential) Name() string {
	return fmt.Sprintf("Sequential(%d/%d,%d/%d)",
		q.cfg.SetupLookback, q.cfg.SetupTarget, q.cfg.CountdownLookback, q.cfg.CountdownTarget)
}

func (q *Sequential) Warmup() int {
	return q.setup.Warmup()
}

func (q *Sequential) Reset() {
	q.setup.Reset()
	q.countdown.Reset()
	q.idx = 0
	q.lastTime = time.Time{}
}

func (q *Sequential) Ready() bool {
	return q.setup.Ready()
}

// Update consumes the next bar and returns the state at its index.
// A bar whose timestamp does not strictly advance past the previous one is
// rejected with *market.OutOfOrderError; the engine state is untouched and
// the caller must not continue the pass.
func (q *Sequential) Update(b market.Bar) (Snapshot, error) {
	if !q.lastTime.IsZero() && !b.Time.After(q.lastTime) {
		return Snapshot{}, &market.OutOfOrderError{Prev: q.lastTime, Next: b.Time}
	}

	q.setup.Update(b)

	// Countdown first, arming second: a countdown that clamps on this bar
	// hands control back to the setup phase, and a still-clamped setup can
	// only arm the next one from the following bar.
	wasActive := q.countdown.Active()
	q.countdown.Update(b)

	if !wasActive && q.setup.Complete() {
		dir := 1
		if q.setup.Value() < 0 {
			dir = -1
		}
		q.countdown.Start(dir)
	}

	snap := Snapshot{
		Index:       q.idx,
		Time:        b.Time,
		Setup:       q.setup.Value(),
		Countdown:   q.countdown.Value(),
		InCountdown: q.countdown.Active(),
		Direction:   q.countdown.Direction(),
	}

	q.idx++
	q.lastTime = b.Time
	return snap, nil
}

// Setup returns the current setup counter.
func (q *Sequential) Setup() int { return q.setup.Value() }

// Countdown returns the current countdown counter.
func (q *Sequential) Countdown() int { return q.countdown.Value() }

// InCountdown reports whether a countdown is open.
func (q *Sequential) InCountdown() bool { return q.countdown.Active() }

// Direction returns the open countdown's direction, 0 if none.
func (q *Sequential) Direction() int { return q.countdown.Direction() }

// CompletedCountdowns returns how many countdowns have clamped at the
// target since the last Reset.
func (q *Sequential) CompletedCountdowns() int { return q.countdown.Completed() }

// Pattern classifies the countdown at the current end of input. Asking
// before the setup lookback is filled is answered with
// ErrInsufficientHistory instead of a silently-empty result.
func (q *Sequential) Pattern() (PatternState, error) {
	if q.idx < q.cfg.SetupLookback {
		return PatternNone, fmt.Errorf("%w: %d bars seen, setup lookback is %d",
			ErrInsufficientHistory, q.idx, q.cfg.SetupLookback)
	}
	switch {
	case q.countdown.Active():
		return PatternInProgress, nil
	case q.countdown.Completed() > 0:
		return PatternComplete, nil
	default:
		return PatternNone, nil
	}
}
