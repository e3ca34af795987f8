package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSV bar format: time,open,high,low,close,volume
// time is RFC3339, volume is optional.

var csvHeader = []string{"time", "open", "high", "low", "close", "volume"}

// ParseBarRecord converts one CSV row into a Bar.
func ParseBarRecord(row []string) (Bar, error) {
	if len(row) < 5 {
		return Bar{}, fmt.Errorf("bad row (need at least 5 cols time,open,high,low,close): %v", row)
	}

	t, err := time.Parse(time.RFC3339, strings.TrimSpace(row[0]))
	if err != nil {
		return Bar{}, fmt.Errorf("bad time %q: %w", row[0], err)
	}

	fields := make([]float64, 4)
	names := []string{"open", "high", "low", "close"}
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad %s %q: %w", names[i], row[i+1], err)
		}
		fields[i] = v
	}

	b := Bar{
		Time:  t,
		Open:  fields[0],
		High:  fields[1],
		Low:   fields[2],
		Close: fields[3],
	}

	if len(row) >= 6 && strings.TrimSpace(row[5]) != "" {
		vol, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad volume %q: %w", row[5], err)
		}
		if vol < 0 {
			return Bar{}, fmt.Errorf("negative volume %q", row[5])
		}
		b.Volume = vol
	}

	return b, nil
}

// LoadCSV reads a full bar series from a CSV file. A leading header row
// (first cell "time") is skipped if present. Ordering is validated row by
// row via Series.Append.
func LoadCSV(path, instrument string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	s := NewSeries(instrument)

	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
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

		b, err := ParseBarRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := s.Append(b); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if s.Len() == 0 {
		return nil, fmt.Errorf("no bars found in %s", path)
	}
	return s, nil
}

// WriteCSV writes bars with a header row; used by the data fetcher to
// produce files LoadCSV can read back.
func WriteCSV(path string, bars []Bar) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range bars {
		err := w.Write([]string{
			b.Time.UTC().Format(time.RFC3339),
			fstr(b.Open),
			fstr(b.High),
			fstr(b.Low),
			fstr(b.Close),
			fstr(b.Volume),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func fstr(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
