package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/sequential/annotate"
	"github.com/rustyeddy/sequential/indicators"
	"github.com/rustyeddy/sequential/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries(t *testing.T, n int) *market.Series {
	t.Helper()
	base := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	s := market.NewSeries("SPX")
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		require.NoError(t, s.Append(market.Bar{
			Time: base.Add(time.Duration(i) * 15 * time.Minute),
			Open: c, High: c, Low: c, Close: c,
		}))
	}
	return s
}

func TestTextRender(t *testing.T) {
	s := testSeries(t, 20)
	res, err := indicators.Run(s, indicators.Config{})
	require.NoError(t, err)
	anns := annotate.Derive(res.Setup, res.Countdown, 0)

	var buf strings.Builder
	require.NoError(t, NewText(&buf).Render(s, res, anns))
	out := buf.String()

	assert.Contains(t, out, "IDX")
	assert.Contains(t, out, "setup +9")
	assert.Contains(t, out, "countdown +1")
	assert.Contains(t, out, "sell countdown still in progress")
	assert.NotContains(t, out, "setup +1", "sub-threshold setups stay off the chart")
}

func TestTextRenderShowAll(t *testing.T) {
	s := testSeries(t, 6)
	res, err := indicators.Run(s, indicators.Config{})
	require.NoError(t, err)

	var sparse, full strings.Builder
	require.NoError(t, NewText(&sparse).Render(s, res, nil))
	r := NewText(&full)
	r.ShowAll = true
	require.NoError(t, r.Render(s, res, nil))

	assert.Greater(t, len(full.String()), len(sparse.String()))
	assert.Contains(t, full.String(), "2026-01-05T09:30:00Z")
}
