// Package data fetches historical candle archives from a Dukascopy-style
// datafeed and flattens them into the CSV bar files the scanner reads.
package data

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/sequential/market"
	"github.com/ulikunitz/xz/lzma"
)

const DefaultBase = "https://datafeed.dukascopy.com/datafeed"

// candleRecordSize is one archived minute candle: seconds since day start,
// open, close, low, high as scaled ints, volume as float32 — big-endian.
const candleRecordSize = 24

// Options configures a fetch.
type Options struct {
	BaseURL string
	Symbol  string // like EURUSD, USDJPY
	Start   time.Time
	End     time.Time // exclusive
	OutDir  string
	Workers int
	Timeout time.Duration
	Sleep   time.Duration // polite delay per request

	// Point converts stored integer prices to reals: 0.00001 for most FX
	// pairs, 0.001 for JPY crosses. Default 0.00001.
	Point float64
}

func (o Options) withDefaults() (Options, error) {
	o.Symbol = strings.ToUpper(strings.TrimSpace(o.Symbol))
	if o.Symbol == "" {
		return o, fmt.Errorf("symbol required")
	}
	if !o.End.After(o.Start) {
		return o, fmt.Errorf("end must be after start")
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultBase
	}
	if o.OutDir == "" {
		o.OutDir = "./dukas"
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.Timeout <= 0 {
		o.Timeout = 45 * time.Second
	}
	if o.Sleep <= 0 {
		o.Sleep = 50 * time.Millisecond
	}
	if o.Point <= 0 {
		o.Point = 0.00001
	}
	return o, nil
}

// Stats counts per-day outcomes of a fetch.
type Stats struct {
	OK      int
	Missing int
	Failed  int
}

type job struct {
	day time.Time
	url string
	bi5 string // downloaded archive path
	csv string // flattened output path
}

// Fetch downloads one minute-candle archive per UTC day in [Start, End),
// decompresses it, and writes a CSV bar file next to it. Days already
// flattened are skipped. A 404 is a missing day (weekend/holiday), not a
// failure.
func Fetch(ctx context.Context, opts Options) (Stats, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return Stats{}, err
	}

	day0 := opts.Start.UTC().Truncate(24 * time.Hour)
	var jobs []job
	for d := day0; d.Before(opts.End); d = d.Add(24 * time.Hour) {
		dir := filepath.Join(opts.OutDir, opts.Symbol,
			fmt.Sprintf("%04d", d.Year()), fmt.Sprintf("%02d", d.Month()))
		jobs = append(jobs, job{
			day: d,
			url: candleURL(opts.BaseURL, opts.Symbol, d),
			bi5: filepath.Join(dir, fmt.Sprintf("%02d_candles.bi5", d.Day())),
			csv: filepath.Join(dir, fmt.Sprintf("%02d.csv", d.Day())),
		})
	}

	client := &http.Client{Timeout: opts.Timeout}

	jobCh := make(chan job)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var stats Stats

	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				time.Sleep(opts.Sleep)

				outcome, err := fetchDay(ctx, client, j, opts)
				mu.Lock()
				switch {
				case err != nil:
					stats.Failed++
					fmt.Printf("FAIL  %s  (%v)\n", j.url, err)
				case outcome == 404:
					stats.Missing++
					fmt.Printf("404   %s\n", j.url)
				default:
					stats.OK++
					fmt.Printf("OK    %s\n", j.csv)
				}
				mu.Unlock()
			}
		}()
	}

	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)
	wg.Wait()

	fmt.Printf("\nDone. ok=%d miss(404)=%d fail=%d\n", stats.OK, stats.Missing, stats.Failed)
	return stats, ctx.Err()
}

func fetchDay(ctx context.Context, client *http.Client, j job, opts Options) (int, error) {
	if st, err := os.Stat(j.csv); err == nil && st.Size() > 0 {
		return 200, nil
	}

	_, status, err := downloadIfMissing(ctx, client, j.url, j.bi5)
	if err != nil {
		return status, err
	}
	if status == 404 {
		return 404, nil
	}

	bars, err := flattenBI5(j.bi5, j.day, opts.Symbol, opts.Point)
	if err != nil {
		return status, fmt.Errorf("flatten %s: %w", j.bi5, err)
	}
	if err := market.WriteCSV(j.csv, bars); err != nil {
		return status, err
	}
	return status, nil
}

func candleURL(base, symbol string, day time.Time) string {
	// The datafeed uses zero-based months in URL paths: Jan=00 ... Dec=11
	month0 := int(day.Month()) - 1
	return fmt.Sprintf("%s/%s/%04d/%02d/%02d/BID_candles_min_1.bi5",
		strings.TrimRight(base, "/"),
		symbol,
		day.Year(), month0, day.Day())
}

func downloadIfMissing(ctx context.Context, client *http.Client, url, dst string) (downloaded bool, status int, err error) {
	if st, err := os.Stat(dst); err == nil && st.Size() > 0 {
		return false, 200, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, 0, err
	}

	tmp := dst + ".part"
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return false, 0, err
	}
	req.Header.Set("User-Agent", "sequential-data-fetch/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return false, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, 404, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, resp.StatusCode, fmt.Errorf("http status %d", resp.StatusCode)
	}

	f, err := os.Create(tmp)
	if err != nil {
		return false, resp.StatusCode, err
	}
	_, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		_ = os.Remove(tmp)
		return false, resp.StatusCode, copyErr
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return false, resp.StatusCode, closeErr
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return false, resp.StatusCode, err
	}
	return true, resp.StatusCode, nil
}

// flattenBI5 decompresses an archive and decodes its candle records.
func flattenBI5(srcBI5 string, day time.Time, symbol string, point float64) ([]market.Bar, error) {
	in, err := os.Open(srcBI5)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	r, err := lzma.NewReader(in)
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decodeCandles(raw, day, symbol, point)
}

func decodeCandles(raw []byte, day time.Time, symbol string, point float64) ([]market.Bar, error) {
	if len(raw)%candleRecordSize != 0 {
		return nil, fmt.Errorf("truncated candle data: %d bytes", len(raw))
	}

	bars := make([]market.Bar, 0, len(raw)/candleRecordSize)
	for off := 0; off < len(raw); off += candleRecordSize {
		rec := raw[off : off+candleRecordSize]
		secs := binary.BigEndian.Uint32(rec[0:4])
		open := float64(binary.BigEndian.Uint32(rec[4:8])) * point
		close := float64(binary.BigEndian.Uint32(rec[8:12])) * point
		low := float64(binary.BigEndian.Uint32(rec[12:16])) * point
		high := float64(binary.BigEndian.Uint32(rec[16:20])) * point
		vol := math.Float32frombits(binary.BigEndian.Uint32(rec[20:24]))

		bars = append(bars, market.Bar{
			Instrument: symbol,
			Time:       day.Add(time.Duration(secs) * time.Second),
			Open:       open,
			High:       high,
			Low:        low,
			Close:      close,
			Volume:     float64(vol),
		})
	}
	return bars, nil
}
