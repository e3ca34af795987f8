// Package replay streams recorded bars into a consumer one at a time,
// simulating an incremental feed (e.g. a new 15-minute bar per delivery).
package replay

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rustyeddy/sequential/market"
)

// BarHandler consumes bars in strict timestamp order.
type BarHandler interface {
	OnBar(b market.Bar) error
}

// BarHandlerFunc adapts a function to the BarHandler interface.
type BarHandlerFunc func(b market.Bar) error

func (f BarHandlerFunc) OnBar(b market.Bar) error {
	return f(b)
}

// Options controls how replay behaves.
type Options struct {
	// Instrument stamps bars whose rows don't carry one.
	Instrument string
}

// CSV replays bars from a CSV file into the handler.
//
// Format: time,open,high,low,close,volume (RFC3339 time, volume optional).
// A header row is detected and skipped. The handler sees each row as soon
// as it is parsed; a handler error or an invalid row aborts the replay.
// Ordering is the handler's concern — the engine validates it eagerly and
// replay surfaces the failure unchanged.
func CSV(ctx context.Context, csvPath string, h BarHandler, opts Options) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	first := true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		b, err := market.ParseBarRecord(row)
		if err != nil {
			return fmt.Errorf("%s: %w", csvPath, err)
		}
		if b.Instrument == "" {
			b.Instrument = opts.Instrument
		}

		if err := h.OnBar(b); err != nil {
			return err
		}
	}
}
