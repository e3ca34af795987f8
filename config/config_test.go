package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	broken := func(mutate func(*Config)) *Config {
		cfg := Default()
		mutate(cfg)
		return cfg
	}

	cases := map[string]*Config{
		"missing csv file":     broken(func(c *Config) { c.Feed.CSVFile = "" }),
		"missing instrument":   broken(func(c *Config) { c.Feed.Instrument = "" }),
		"bad timeframe":        broken(func(c *Config) { c.Feed.Timeframe = "fifteen" }),
		"negative lookback":    broken(func(c *Config) { c.Engine.SetupLookback = -1 }),
		"target of one":        broken(func(c *Config) { c.Engine.CountdownTarget = 1 }),
		"min setup too big":    broken(func(c *Config) { c.Annotations.MinSetup = 99 }),
		"unknown journal type": broken(func(c *Config) { c.Journal.Type = "parquet" }),
		"sqlite without path":  broken(func(c *Config) { c.Journal.DBPath = "" }),
		"csv without files":    broken(func(c *Config) { c.Journal.Type = "csv" }),
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateZeroEngineUsesDefaults(t *testing.T) {
	cfg := Default()
	cfg.Engine.SetupLookback = 0
	cfg.Engine.SetupTarget = 0
	cfg.Engine.CountdownLookback = 0
	cfg.Engine.CountdownTarget = 0
	assert.NoError(t, cfg.Validate(), "zero engine values mean conventional defaults")
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")

	cfg := Default()
	cfg.Feed.Instrument = "EUR_USD"
	cfg.Annotations.MinSetup = 7
	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR_USD", got.Feed.Instrument)
	assert.Equal(t, 7, got.Annotations.MinSetup)
	assert.Equal(t, cfg.Engine, got.Engine)
}

func TestSaveLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.json")

	cfg := Default()
	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Feed, got.Feed)
}

func TestLoadInvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	cfg := Default()
	cfg.Feed.CSVFile = ""
	require.NoError(t, cfg.SaveToFile(path))

	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestParseTimeframe(t *testing.T) {
	d, err := (FeedConfig{Timeframe: "15m"}).ParseTimeframe()
	require.NoError(t, err)
	assert.Equal(t, "15m0s", d.String())

	_, err = (FeedConfig{Timeframe: "2 weeks"}).ParseTimeframe()
	assert.Error(t, err)

	d, err = (FeedConfig{}).ParseTimeframe()
	require.NoError(t, err)
	assert.Zero(t, d)
}
