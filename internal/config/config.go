package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/regimes/internal/series"
)

// Config is the complete configuration of a detection run.
type Config struct {
	Input   InputConfig   `json:"input" yaml:"input"`
	Detect  DetectConfig  `json:"detect" yaml:"detect"`
	Sweep   SweepConfig   `json:"sweep" yaml:"sweep"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// InputConfig locates the series and selects its preparation.
type InputConfig struct {
	Path        string `json:"path" yaml:"path"`
	DateColumn  int    `json:"date_column" yaml:"date_column"`
	ValueColumn int    `json:"value_column" yaml:"value_column"`
	DateLayout  string `json:"date_layout,omitempty" yaml:"date_layout,omitempty"`
	Resample    string `json:"resample,omitempty" yaml:"resample,omitempty"` // "", "month" or "year"
	Log         bool   `json:"log" yaml:"log"`
	Standardize bool   `json:"standardize" yaml:"standardize"`
}

// DetectConfig holds the parameters of a single run.
type DetectConfig struct {
	L int     `json:"l" yaml:"l"`
	P float64 `json:"p" yaml:"p"`
}

// SweepConfig holds the half-open range of regime lengths [LMin, LMax).
type SweepConfig struct {
	LMin    int `json:"l_min" yaml:"l_min"`
	LMax    int `json:"l_max" yaml:"l_max"`
	Workers int `json:"workers" yaml:"workers"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	ShiftsFile string `json:"shifts_file,omitempty" yaml:"shifts_file,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

// CSVOptions returns the series loader options for the input.
func (c InputConfig) CSVOptions() series.CSVOptions {
	return series.CSVOptions{
		DateColumn:  c.DateColumn,
		ValueColumn: c.ValueColumn,
		DateLayout:  c.DateLayout,
	}
}

// Transform returns the preparation steps for the input.
func (c InputConfig) Transform() (series.Transform, error) {
	p, err := series.ParsePeriod(c.Resample)
	if err != nil {
		return series.Transform{}, err
	}
	return series.Transform{Resample: p, Log: c.Log, Standardize: c.Standardize}, nil
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
// on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
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

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
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

// Validate checks if the configuration is valid. The input path is checked
// by the commands that need it.
func (c *Config) Validate() error {
	if c.Input.DateColumn < 0 || c.Input.ValueColumn < 0 {
		return fmt.Errorf("input columns must not be negative")
	}
	if c.Input.DateColumn == c.Input.ValueColumn {
		return fmt.Errorf("input.date_column and input.value_column must differ")
	}
	if _, err := series.ParsePeriod(c.Input.Resample); err != nil {
		return fmt.Errorf("input.resample: %w", err)
	}
	if c.Detect.L < 2 {
		return fmt.Errorf("detect.l must be at least 2")
	}
	if !(c.Detect.P > 0 && c.Detect.P < 1) {
		return fmt.Errorf("detect.p must be between 0 and 1")
	}
	if c.Sweep.LMin < 2 {
		return fmt.Errorf("sweep.l_min must be at least 2")
	}
	if c.Sweep.LMax <= c.Sweep.LMin {
		return fmt.Errorf("sweep.l_max must be greater than sweep.l_min")
	}
	if c.Sweep.Workers < 0 {
		return fmt.Errorf("sweep.workers must not be negative")
	}
	switch c.Journal.Type {
	case "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "csv":
		if c.Journal.RunsFile == "" || c.Journal.ShiftsFile == "" {
			return fmt.Errorf("journal runs_file and shifts_file required for CSV type")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Input: InputConfig{
			DateColumn:  0,
			ValueColumn: 1,
			DateLayout:  "2006-01-02",
			Standardize: true,
		},
		Detect: DetectConfig{
			L: 10,
			P: 0.05,
		},
		Sweep: SweepConfig{
			LMin:    5,
			LMax:    40,
			Workers: 4,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./regimes.sqlite",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
