package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/sequential/annotate"
	"github.com/rustyeddy/sequential/indicators"
	"gopkg.in/yaml.v3"
)

// Config represents a complete scan/replay configuration
type Config struct {
	Feed        FeedConfig        `json:"feed" yaml:"feed"`
	Engine      indicators.Config `json:"engine" yaml:"engine"`
	Annotations AnnotationsConfig `json:"annotations" yaml:"annotations"`
	Journal     JournalConfig     `json:"journal" yaml:"journal"`
}

// FeedConfig describes where bars come from
type FeedConfig struct {
	CSVFile    string `json:"csv_file" yaml:"csv_file"`
	Instrument string `json:"instrument" yaml:"instrument"`
	Timeframe  string `json:"timeframe" yaml:"timeframe"` // e.g. "15m", "1h"
}

// ParseTimeframe converts the timeframe string to time.Duration
func (fc FeedConfig) ParseTimeframe() (time.Duration, error) {
	if fc.Timeframe == "" {
		return 0, nil
	}
	return time.ParseDuration(fc.Timeframe)
}

// AnnotationsConfig controls label derivation
type AnnotationsConfig struct {
	MinSetup int `json:"min_setup" yaml:"min_setup"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type            string `json:"type" yaml:"type"` // "csv" or "sqlite"
	RunsFile        string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	AnnotationsFile string `json:"annotations_file,omitempty" yaml:"annotations_file,omitempty"`
	DBPath          string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Feed.CSVFile == "" {
		return fmt.Errorf("feed.csv_file is required")
	}
	if c.Feed.Instrument == "" {
		return fmt.Errorf("feed.instrument is required")
	}
	if _, err := c.Feed.ParseTimeframe(); err != nil {
		return fmt.Errorf("feed.timeframe: %w", err)
	}
	if c.Engine.SetupLookback < 0 || c.Engine.CountdownLookback < 0 {
		return fmt.Errorf("engine lookbacks must not be negative")
	}
	if c.Engine.SetupTarget < 0 || c.Engine.CountdownTarget < 0 {
		return fmt.Errorf("engine targets must not be negative")
	}
	if c.Engine.SetupTarget == 1 || c.Engine.CountdownTarget == 1 {
		return fmt.Errorf("engine targets must be at least 2")
	}
	if c.Annotations.MinSetup < 0 {
		return fmt.Errorf("annotations.min_setup must not be negative")
	}
	target := c.Engine.SetupTarget
	if target == 0 {
		target = indicators.DefaultSetupTarget
	}
	if c.Annotations.MinSetup > target {
		return fmt.Errorf("annotations.min_setup exceeds the setup target %d", target)
	}
	if c.Journal.Type != "" {
		if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
			return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
		}
		if c.Journal.Type == "csv" && (c.Journal.RunsFile == "" || c.Journal.AnnotationsFile == "") {
			return fmt.Errorf("journal runs_file and annotations_file required for CSV type")
		}
		if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Feed: FeedConfig{
			CSVFile:    "./bars.csv",
			Instrument: "SPX",
			Timeframe:  "15m",
		},
		Engine: indicators.Config{
			SetupLookback:     indicators.DefaultSetupLookback,
			SetupTarget:       indicators.DefaultSetupTarget,
			CountdownLookback: indicators.DefaultCountdownLookback,
			CountdownTarget:   indicators.DefaultCountdownTarget,
		},
		Annotations: AnnotationsConfig{
			MinSetup: annotate.DefaultMinSetup,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./sequential.sqlite",
		},
	}
}
