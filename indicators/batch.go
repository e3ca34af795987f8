package indicators

import "github.com/rustyeddy/sequential/market"

// Result holds the full counter sequences from one pass over a series.
type Result struct {
	Setup     []int
	Countdown []int

	// Active reports a countdown still open at the end of the series —
	// an incomplete pattern, reported rather than dropped.
	Active    bool
	Direction int

	// Completed is the number of countdowns that clamped at the target.
	Completed int
}

// Run executes the canonical recurrence over a whole series. The pass is a
// pure function of the input: re-running it over the same bars yields
// identical sequences.
func Run(s *market.Series, cfg Config) (Result, error) {
	seq := NewSequential(cfg)

	res := Result{
		Setup:     make([]int, 0, s.Len()),
		Countdown: make([]int, 0, s.Len()),
	}

	for _, b := range s.Bars {
		snap, err := seq.Update(b)
		if err != nil {
			return Result{}, err
		}
		res.Setup = append(res.Setup, snap.Setup)
		res.Countdown = append(res.Countdown, snap.Countdown)
	}

	res.Active = seq.InCountdown()
	res.Direction = seq.Direction()
	res.Completed = seq.CompletedCountdowns()
	return res, nil
}
