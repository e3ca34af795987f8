package market

import (
	"fmt"
	"time"
)

// OutOfOrderError reports a bar whose timestamp does not strictly advance
// past the previous bar. The series (or engine) it was offered to is left
// unmodified.
type OutOfOrderError struct {
	Prev time.Time
	Next time.Time
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("bar out of order: %s does not advance past %s",
		e.Next.UTC().Format(time.RFC3339), e.Prev.UTC().Format(time.RFC3339))
}

// Series is an ordered sequence of bars, strictly increasing by timestamp.
// Indicators index into it by position.
type Series struct {
	Instrument string
	Bars       []Bar
}

func NewSeries(instrument string) *Series {
	return &Series{Instrument: instrument}
}

func (s *Series) Len() int {
	return len(s.Bars)
}

func (s *Series) At(i int) Bar {
	return s.Bars[i]
}

// Last returns the most recent bar, or false on an empty series.
func (s *Series) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Append validates ordering eagerly: duplicate or backwards timestamps are
// rejected with *OutOfOrderError and the series stays as it was.
func (s *Series) Append(b Bar) error {
	if prev, ok := s.Last(); ok && !b.Time.After(prev.Time) {
		return &OutOfOrderError{Prev: prev.Time, Next: b.Time}
	}
	if b.Instrument == "" {
		b.Instrument = s.Instrument
	}
	s.Bars = append(s.Bars, b)
	return nil
}
