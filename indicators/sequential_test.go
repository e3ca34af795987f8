package indicators

import (
	"testing"
	"time"

	"github.com/rustyeddy/sequential/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)

// barsFromCloses builds flat bars (High = Low = Close) spaced 15 minutes.
func barsFromCloses(closes ...float64) []market.Bar {
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:  testBase.Add(time.Duration(i) * 15 * time.Minute),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return bars
}

func rising(n int) []market.Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return barsFromCloses(closes...)
}

func falling(n int) []market.Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	return barsFromCloses(closes...)
}

func feed(t *testing.T, seq *Sequential, bars []market.Bar) []Snapshot {
	t.Helper()
	snaps := make([]Snapshot, 0, len(bars))
	for _, b := range bars {
		snap, err := seq.Update(b)
		require.NoError(t, err)
		snaps = append(snaps, snap)
	}
	return snaps
}

func TestSetupWarmup(t *testing.T) {
	seq := NewSequential(Config{})
	snaps := feed(t, seq, rising(20))

	for i := 0; i < 4; i++ {
		assert.Equal(t, 0, snaps[i].Setup, "index %d is inside the lookback window", i)
	}
	assert.False(t, snaps[3].InCountdown)
}

func TestSetupMonotonicRun(t *testing.T) {
	// Closes 100,101,...,119: each close exceeds the one 4 bars back from
	// index 4 on, so the counter walks 1,2,...,9 and clamps at index 12.
	seq := NewSequential(Config{})
	snaps := feed(t, seq, rising(20))

	for i := 4; i < 13; i++ {
		assert.Equal(t, i-3, snaps[i].Setup, "index %d", i)
	}
	for i := 12; i < 20; i++ {
		assert.Equal(t, 9, snaps[i].Setup, "clamped at index %d", i)
		assert.True(t, snaps[i].InCountdown, "sell countdown open from index 12, index %d", i)
		assert.Equal(t, 1, snaps[i].Direction)
	}

	// Flat bars qualify every countdown bar after the entry index.
	assert.Equal(t, 0, snaps[12].Countdown)
	for i := 13; i < 20; i++ {
		assert.Equal(t, i-12, snaps[i].Countdown, "index %d", i)
	}
}

func TestSetupBearishRun(t *testing.T) {
	seq := NewSequential(Config{})
	snaps := feed(t, seq, falling(20))

	for i := 4; i < 13; i++ {
		assert.Equal(t, -(i - 3), snaps[i].Setup, "index %d", i)
	}
	assert.Equal(t, -9, snaps[12].Setup)
	assert.True(t, snaps[12].InCountdown)
	assert.Equal(t, -1, snaps[12].Direction)
	for i := 13; i < 20; i++ {
		assert.Equal(t, -(i - 12), snaps[i].Countdown, "buy countdown, index %d", i)
	}
}

func TestSetupAllEqualCloses(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}

	seq := NewSequential(Config{})
	snaps := feed(t, seq, barsFromCloses(closes...))

	for i, snap := range snaps {
		assert.Equal(t, 0, snap.Setup, "index %d", i)
		assert.False(t, snap.InCountdown, "index %d", i)
	}
}

func TestSetupAlternatingBias(t *testing.T) {
	// close[i]-close[i-4] flips sign every bar, so the run never grows
	// past magnitude 1 and no countdown triggers.
	closes := make([]float64, 24)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100 + float64(i)
		} else {
			closes[i] = 100 - float64(i)
		}
	}

	seq := NewSequential(Config{})
	snaps := feed(t, seq, barsFromCloses(closes...))

	for i := 4; i < len(snaps); i++ {
		assert.LessOrEqual(t, snaps[i].Setup, 1, "index %d", i)
		assert.GreaterOrEqual(t, snaps[i].Setup, -1, "index %d", i)
		assert.False(t, snaps[i].InCountdown, "index %d", i)
	}
}

func TestSetupTieResetsRun(t *testing.T) {
	// 100..107 rising, then a close equal to the one 4 back.
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 107, 104}

	seq := NewSequential(Config{})
	snaps := feed(t, seq, barsFromCloses(closes...))

	assert.Equal(t, 4, snaps[7].Setup)
	assert.Equal(t, 0, snaps[8].Setup, "tie against the 4-back close resets the run")
}

func TestSetupSignFlipRestartsAtOne(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 103.5}

	seq := NewSequential(Config{})
	snaps := feed(t, seq, barsFromCloses(closes...))

	assert.Equal(t, 3, snaps[6].Setup)
	assert.Equal(t, -1, snaps[7].Setup, "bearish close restarts at -1, not -4")
}

func TestCountdownCarryOnNonQualifyingBars(t *testing.T) {
	// Rising closes keep the setup pinned at +9, but highs sit 5 points
	// above each close so close[i] never beats high[i-2]: the countdown
	// stays armed at 0, carried bar to bar.
	bars := rising(20)
	for i := range bars {
		bars[i].High = bars[i].Close + 5
	}

	seq := NewSequential(Config{})
	snaps := feed(t, seq, bars)

	assert.True(t, snaps[19].InCountdown)
	for i := 12; i < 20; i++ {
		assert.Equal(t, 0, snaps[i].Countdown, "no bar qualifies, index %d", i)
	}
}

func TestCountdownCompletion(t *testing.T) {
	seq := NewSequential(Config{})
	snaps := feed(t, seq, rising(30))

	// Armed at 12 with count 0, qualifying every bar after: clamps at
	// 13 on index 25 and control returns to the setup phase.
	assert.Equal(t, 13, snaps[25].Countdown)
	assert.False(t, snaps[25].InCountdown)
	assert.Equal(t, 0, snaps[25].Direction)

	// The setup is still clamped at +9, so the very next bar arms a
	// fresh countdown from 0.
	assert.Equal(t, 9, snaps[26].Setup)
	assert.True(t, snaps[26].InCountdown)
	assert.Equal(t, 0, snaps[26].Countdown)
	assert.Equal(t, 1, snaps[26].Direction)
}

func TestCounterBounds(t *testing.T) {
	for name, bars := range map[string][]market.Bar{
		"rising":  rising(60),
		"falling": falling(60),
	} {
		t.Run(name, func(t *testing.T) {
			seq := NewSequential(Config{})
			for _, snap := range feed(t, seq, bars) {
				assert.GreaterOrEqual(t, snap.Setup, -9)
				assert.LessOrEqual(t, snap.Setup, 9)
				assert.GreaterOrEqual(t, snap.Countdown, -13)
				assert.LessOrEqual(t, snap.Countdown, 13)
			}
		})
	}
}

func TestUpdateRejectsOutOfOrderBar(t *testing.T) {
	seq := NewSequential(Config{})
	feed(t, seq, rising(6))
	before := seq.Setup()

	_, err := seq.Update(market.Bar{Time: testBase, Close: 50})
	var ooe *market.OutOfOrderError
	require.ErrorAs(t, err, &ooe)
	assert.Equal(t, before, seq.Setup(), "prior state left intact")

	// Same timestamp as the last accepted bar is equally invalid.
	_, err = seq.Update(market.Bar{Time: testBase.Add(5 * 15 * time.Minute), Close: 50})
	assert.ErrorAs(t, err, &ooe)
}

func TestPattern(t *testing.T) {
	t.Run("insufficient history", func(t *testing.T) {
		seq := NewSequential(Config{})
		feed(t, seq, rising(3))

		_, err := seq.Pattern()
		assert.ErrorIs(t, err, ErrInsufficientHistory)
	})

	t.Run("none and in progress", func(t *testing.T) {
		seq := NewSequential(Config{})
		feed(t, seq, rising(8))

		st, err := seq.Pattern()
		require.NoError(t, err)
		assert.Equal(t, PatternNone, st)

		feed(t, seq, rising(20)[8:])
		st, err = seq.Pattern()
		require.NoError(t, err)
		assert.Equal(t, PatternInProgress, st)
	})

	t.Run("complete", func(t *testing.T) {
		seq := NewSequential(Config{})
		feed(t, seq, rising(26))

		st, err := seq.Pattern()
		require.NoError(t, err)
		assert.Equal(t, PatternComplete, st)
	})
}

func TestRunIdempotent(t *testing.T) {
	s := market.NewSeries("SPX")
	for _, b := range rising(30) {
		require.NoError(t, s.Append(b))
	}

	first, err := Run(s, Config{})
	require.NoError(t, err)
	second, err := Run(s, Config{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, first.Completed)
	assert.True(t, first.Active, "a second countdown re-armed after the completed one")
	assert.Equal(t, 1, first.Direction)
}

func TestSequentialReset(t *testing.T) {
	seq := NewSequential(Config{})
	feed(t, seq, rising(20))
	require.True(t, seq.InCountdown())

	seq.Reset()
	assert.Equal(t, 0, seq.Setup())
	assert.Equal(t, 0, seq.Countdown())
	assert.False(t, seq.InCountdown())
	assert.False(t, seq.Ready())

	// After Reset the engine accepts earlier timestamps again.
	snaps := feed(t, seq, rising(20))
	assert.Equal(t, 9, snaps[12].Setup)
}

func TestCustomParameters(t *testing.T) {
	// A 2-lookback, 3-target setup with a 1-lookback, 2-target countdown:
	// small numbers keep the walk hand-checkable.
	cfg := Config{SetupLookback: 2, SetupTarget: 3, CountdownLookback: 1, CountdownTarget: 2}

	seq := NewSequential(cfg)
	snaps := feed(t, seq, rising(10))

	assert.Equal(t, 0, snaps[1].Setup)
	assert.Equal(t, 1, snaps[2].Setup)
	assert.Equal(t, 3, snaps[4].Setup, "clamped at 3")
	assert.True(t, snaps[4].InCountdown)
	assert.Equal(t, 2, snaps[6].Countdown, "completes at target 2")
	assert.False(t, snaps[6].InCountdown)
}

func TestStandaloneSetupDoesNotArm(t *testing.T) {
	s := NewSetup(0, 0)
	assert.Equal(t, "Setup(4,9)", s.Name())
	assert.Equal(t, 5, s.Warmup())

	for _, b := range rising(20) {
		s.Update(b)
	}
	assert.Equal(t, 9, s.Value())
	assert.True(t, s.Complete())
	assert.True(t, s.Ready())
}

func TestStandaloneCountdown(t *testing.T) {
	c := NewCountdown(0, 0)
	assert.Equal(t, "Countdown(2,13)", c.Name())

	bars := rising(6)
	c.Update(bars[0])
	c.Update(bars[1])
	require.True(t, c.Ready())

	c.Start(1)
	assert.True(t, c.Active())
	assert.Equal(t, 0, c.Value())

	c.Update(bars[2])
	assert.Equal(t, 1, c.Value(), "close above the 2-back high qualifies")
	c.Update(bars[3])
	assert.Equal(t, 2, c.Value())

	c.Reset()
	assert.False(t, c.Active())
	assert.Equal(t, 0, c.Value())
	assert.Equal(t, 0, c.Completed())
}
