// Package indicators provides the TD Sequential setup and countdown
// counters used to flag potential trend exhaustion on a bar series.
package indicators

import "github.com/rustyeddy/sequential/market"

// Indicator computes a single streaming value from bars.
// It is deterministic and safe to use in batch scans, replays, and live feeds.
type Indicator interface {
	// Name returns a stable identifier like "Setup(4,9)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool
}

type ValueInt interface {
	// Value returns the current signed counter. Before Ready() it is 0 —
	// callers should always check Ready().
	Value() int
}
