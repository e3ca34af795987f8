// Package annotate turns counter sequences into sparse label events for a
// chart renderer. Only semantic data (index, kind, sign, magnitude) is
// produced; color, offset, and font are the renderer's business.
package annotate

import (
	"fmt"
	"sort"
)

// Kind distinguishes setup labels from countdown labels.
type Kind int

const (
	Setup Kind = iota
	Countdown
)

func (k Kind) String() string {
	switch k {
	case Setup:
		return "setup"
	case Countdown:
		return "countdown"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DefaultMinSetup is the smallest setup magnitude worth a label. Early run
// values (1..5) flip too often to be chart-worthy.
const DefaultMinSetup = 6

// Annotation is one derived label event.
type Annotation struct {
	Index     int
	Kind      Kind
	Magnitude int
	Sign      int
}

// Count returns the signed counter value the label stands for.
func (a Annotation) Count() int {
	return a.Sign * a.Magnitude
}

// Derive filters the two counter sequences down to an ordered label list:
//
//   - a setup label at index i when the value is nonzero, at least minSetup
//     in magnitude, and first seen at i (different from index i-1);
//   - a countdown label at every index where a nonzero count changes.
//
// minSetup <= 0 means DefaultMinSetup. Derive is pure; it can be re-run on
// demand from stored sequences.
func Derive(setup, countdown []int, minSetup int) []Annotation {
	if minSetup <= 0 {
		minSetup = DefaultMinSetup
	}

	var anns []Annotation

	for i, v := range setup {
		if v == 0 || abs(v) < minSetup {
			continue
		}
		if i > 0 && v == setup[i-1] {
			continue
		}
		anns = append(anns, Annotation{Index: i, Kind: Setup, Magnitude: abs(v), Sign: sign(v)})
	}

	for i, v := range countdown {
		if v == 0 {
			continue
		}
		if i > 0 && v == countdown[i-1] {
			continue
		}
		anns = append(anns, Annotation{Index: i, Kind: Countdown, Magnitude: abs(v), Sign: sign(v)})
	}

	// Order by bar index, setup before countdown on the same bar.
	sort.SliceStable(anns, func(i, j int) bool {
		if anns[i].Index != anns[j].Index {
			return anns[i].Index < anns[j].Index
		}
		return anns[i].Kind < anns[j].Kind
	})
	return anns
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
