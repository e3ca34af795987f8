// Package market defines the bar and series types shared by every
// indicator and feed consumer.
package market

import "time"

// Bar is one OHLCV sample for a fixed time interval.
type Bar struct {
	Instrument string // optional but handy
	Time       time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64

	Volume float64 // optional
}
