// Package chart is the seam between the indicator core and whatever draws
// it. The core hands a renderer the bar series, the counter sequences, and
// the derived labels; visual encoding is entirely the renderer's choice.
package chart

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rustyeddy/sequential/annotate"
	"github.com/rustyeddy/sequential/indicators"
	"github.com/rustyeddy/sequential/market"
)

// Renderer consumes one completed pass.
type Renderer interface {
	Render(s *market.Series, res indicators.Result, anns []annotate.Annotation) error
}

// Text renders the labeled bars as a plain-text table, one row per
// annotation. Good enough for a terminal; a real chart frontend plugs in
// behind the same interface.
type Text struct {
	W io.Writer

	// ShowAll includes every bar, not just the labeled ones.
	ShowAll bool
}

func NewText(w io.Writer) *Text {
	return &Text{W: w}
}

func (t *Text) Render(s *market.Series, res indicators.Result, anns []annotate.Annotation) error {
	tw := tabwriter.NewWriter(t.W, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IDX\tTIME\tCLOSE\tSETUP\tCOUNTDOWN\tLABEL")

	byIndex := make(map[int][]annotate.Annotation, len(anns))
	for _, a := range anns {
		byIndex[a.Index] = append(byIndex[a.Index], a)
	}

	for i := 0; i < s.Len(); i++ {
		labels := byIndex[i]
		if len(labels) == 0 && !t.ShowAll {
			continue
		}

		b := s.At(i)
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%d\t%d\t%s\n",
			i, b.Time.UTC().Format(time.RFC3339), b.Close,
			res.Setup[i], res.Countdown[i], labelText(labels))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if res.Active {
		side := "sell"
		if res.Direction < 0 {
			side = "buy"
		}
		fmt.Fprintf(t.W, "\n%s countdown still in progress at end of data\n", side)
	}
	return nil
}

func labelText(labels []annotate.Annotation) string {
	out := ""
	for i, a := range labels {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s %+d", a.Kind, a.Count())
	}
	return out
}
