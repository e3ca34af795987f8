package indicators

import (
	"fmt"

	"github.com/rustyeddy/sequential/market"
)

// Countdown is the streaming TD countdown counter. It is armed by Start
// with a direction and then accumulates qualifying bars:
//
//	sell (+1): close above the high two bars earlier
//	buy  (-1): close below the low two bars earlier
//
// Non-qualifying bars carry the count unchanged. At ±target the count
// clamps and the countdown deactivates. The lookback window is maintained
// on every bar so Start can arm mid-series without its own warmup.
type Countdown struct {
	lookback int
	target   int

	window    []market.Bar // last `lookback` bars, oldest first
	direction int
	count     int
	active    bool
	completed int // completed countdowns since Reset
}

// NewCountdown creates an inactive countdown counter. Zero lookback/target
// use the conventional 2 and 13.
func NewCountdown(lookback, target int) *Countdown {
	if lookback <= 0 {
		lookback = DefaultCountdownLookback
	}
	if target <= 0 {
		target = DefaultCountdownTarget
	}
	return &Countdown{
		lookback: lookback,
		target:   target,
		window:   make([]market.Bar, 0, lookback),
	}
}

func (c *Countdown) Name() string {
	return fmt.Sprintf("Countdown(%d,%d)", c.lookback, c.target)
}

func (c *Countdown) Warmup() int {
	return c.lookback
}

func (c *Countdown) Reset() {
	c.window = c.window[:0]
	c.direction = 0
	c.count = 0
	c.active = false
	c.completed = 0
}

// Start arms the countdown in the given direction (+1 sell, -1 buy).
// The count restarts at 0; qualifying bars are counted from the next
// Update on.
func (c *Countdown) Start(direction int) {
	if direction == 0 {
		return
	}
	if direction > 0 {
		c.direction = 1
	} else {
		c.direction = -1
	}
	c.count = 0
	c.active = true
}

func (c *Countdown) Update(b market.Bar) {
	if c.active && len(c.window) == c.lookback {
		ref := c.window[0]
		switch {
		case c.direction > 0 && b.Close > ref.High:
			c.count++
		case c.direction < 0 && b.Close < ref.Low:
			c.count--
		}

		if c.count >= c.target || c.count <= -c.target {
			c.count = c.target * c.direction
			c.active = false
			c.direction = 0
			c.completed++
		}
	}

	c.window = append(c.window, b)
	if len(c.window) > c.lookback {
		c.window = c.window[1:]
	}
}

func (c *Countdown) Ready() bool {
	return len(c.window) >= c.lookback
}

func (c *Countdown) Value() int {
	return c.count
}

// Active reports whether a countdown is open: armed but not yet clamped at
// the target. An active countdown at the end of a series is an incomplete
// pattern, not an error.
func (c *Countdown) Active() bool {
	return c.active
}

func (c *Countdown) Direction() int {
	return c.direction
}

// Completed returns how many countdowns have clamped at the target since
// the last Reset.
func (c *Countdown) Completed() int {
	return c.completed
}
