package indicators

import (
	"fmt"

	"github.com/rustyeddy/sequential/market"
)

// Setup is the streaming TD setup counter: a signed run of same-direction
// closes relative to the close `lookback` bars earlier, clamped at ±target.
//
// The counter is 0 until lookback+1 bars have been seen (there is no bar to
// reach back to before that). An equal close resets the run to 0.
type Setup struct {
	lookback int
	target   int

	closes []float64 // last `lookback` closes, oldest first
	count  int
	seen   int
}

// NewSetup creates a setup counter. Zero lookback/target use the
// conventional 4 and 9.
func NewSetup(lookback, target int) *Setup {
	if lookback <= 0 {
		lookback = DefaultSetupLookback
	}
	if target <= 0 {
		target = DefaultSetupTarget
	}
	return &Setup{
		lookback: lookback,
		target:   target,
		closes:   make([]float64, 0, lookback),
	}
}

func (s *Setup) Name() string {
	return fmt.Sprintf("Setup(%d,%d)", s.lookback, s.target)
}

func (s *Setup) Warmup() int {
	return s.lookback + 1
}

func (s *Setup) Reset() {
	s.closes = s.closes[:0]
	s.count = 0
	s.seen = 0
}

func (s *Setup) Update(b market.Bar) {
	if len(s.closes) == s.lookback {
		ref := s.closes[0]
		switch {
		case b.Close < ref:
			if s.count < 0 {
				s.count--
			} else {
				s.count = -1
			}
			if s.count < -s.target {
				s.count = -s.target
			}
		case b.Close > ref:
			if s.count > 0 {
				s.count++
			} else {
				s.count = 1
			}
			if s.count > s.target {
				s.count = s.target
			}
		default:
			// tie resets the run
			s.count = 0
		}
	}

	s.closes = append(s.closes, b.Close)
	if len(s.closes) > s.lookback {
		s.closes = s.closes[1:]
	}
	s.seen++
}

func (s *Setup) Ready() bool {
	return s.seen >= s.Warmup()
}

func (s *Setup) Value() int {
	return s.count
}

// Complete reports whether the run is clamped at the target, the condition
// that arms a countdown.
func (s *Setup) Complete() bool {
	return s.count == s.target || s.count == -s.target
}
