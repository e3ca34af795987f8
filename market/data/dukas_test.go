package data

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candleBytes(secs uint32, open, close, low, high uint32, vol float32) []byte {
	b := make([]byte, candleRecordSize)
	binary.BigEndian.PutUint32(b[0:4], secs)
	binary.BigEndian.PutUint32(b[4:8], open)
	binary.BigEndian.PutUint32(b[8:12], close)
	binary.BigEndian.PutUint32(b[12:16], low)
	binary.BigEndian.PutUint32(b[16:20], high)
	binary.BigEndian.PutUint32(b[20:24], math.Float32bits(vol))
	return b
}

func TestDecodeCandles(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	var raw []byte
	raw = append(raw, candleBytes(0, 108501, 108520, 108490, 108533, 12.5)...)
	raw = append(raw, candleBytes(60, 108520, 108510, 108500, 108540, 3.25)...)

	bars, err := decodeCandles(raw, day, "EURUSD", 0.00001)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "EURUSD", bars[0].Instrument)
	assert.Equal(t, day, bars[0].Time)
	assert.InDelta(t, 1.08501, bars[0].Open, 1e-9)
	assert.InDelta(t, 1.08520, bars[0].Close, 1e-9)
	assert.InDelta(t, 1.08490, bars[0].Low, 1e-9)
	assert.InDelta(t, 1.08533, bars[0].High, 1e-9)
	assert.InDelta(t, 12.5, bars[0].Volume, 1e-6)

	assert.Equal(t, day.Add(time.Minute), bars[1].Time)
}

func TestDecodeCandlesTruncated(t *testing.T) {
	_, err := decodeCandles(make([]byte, candleRecordSize+3), time.Now(), "X", 1)
	assert.Error(t, err)
}

func TestDecodeCandlesEmpty(t *testing.T) {
	bars, err := decodeCandles(nil, time.Now(), "X", 1)
	assert.NoError(t, err)
	assert.Empty(t, bars)
}

func TestCandleURL(t *testing.T) {
	day := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	url := candleURL("https://datafeed.example.com/datafeed/", "EURUSD", day)

	// January is month 00 in the URL path.
	assert.Equal(t,
		"https://datafeed.example.com/datafeed/EURUSD/2024/00/09/BID_candles_min_1.bi5",
		url)
}

func TestOptionsDefaults(t *testing.T) {
	o, err := Options{
		Symbol: " eurusd ",
		Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}.withDefaults()
	require.NoError(t, err)

	assert.Equal(t, "EURUSD", o.Symbol)
	assert.Equal(t, DefaultBase, o.BaseURL)
	assert.Equal(t, 4, o.Workers)
	assert.InDelta(t, 0.00001, o.Point, 1e-12)

	_, err = Options{Symbol: "EURUSD"}.withDefaults()
	assert.Error(t, err, "zero range must be rejected")

	_, err = Options{
		Start: time.Now(),
		End:   time.Now().Add(time.Hour),
	}.withDefaults()
	assert.Error(t, err, "symbol is required")
}
