package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Port    string `yaml:"port"`     // spireg name, e.g. SPI0.0; empty picks the first
	SpeedHz int64  `yaml:"speed_hz"` // e.g. 8000000
}

type Pattern struct {
	Kind      string `yaml:"kind"`      // "custom" | "google"
	Primary   string `yaml:"primary"`   // #RRGGBB
	Secondary string `yaml:"secondary"` // #RRGGBB
}

type DOA struct {
	Bearing    float64 `yaml:"bearing"`     // fixed bearing when no array is attached
	IntervalMs int     `yaml:"interval_ms"` // sampling period
}

type Config struct {
	Driver     string `yaml:"driver"`     // "apa102" | "nrzled" | "console" | "sim"
	PowerPin   string `yaml:"power_pin"`  // e.g. GPIO5
	Brightness int    `yaml:"brightness"` // percent, 1..100

	SPI     SPI     `yaml:"spi,omitempty"`
	Pattern Pattern `yaml:"pattern"`
	DOA     DOA     `yaml:"doa"`
}

// Default matches the ReSpeaker 4-mic and 6-mic hats.
func Default() *Config {
	return &Config{
		Driver:     "apa102",
		PowerPin:   "GPIO5",
		Brightness: 10,
		SPI:        SPI{SpeedHz: 8000000},
		Pattern: Pattern{
			Kind:      "custom",
			Primary:   "#0000FF",
			Secondary: "#00C0FF",
		},
		DOA: DOA{IntervalMs: 100},
	}
}

// Load reads path over the defaults; fields missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}
