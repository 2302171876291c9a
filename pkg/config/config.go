// Package config loads the canshark yaml configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourceSysfs     = "sysfs"
	SourceVirtual   = "virtual"
	SourceSLCan     = "slcan"
	SourceCANUSB    = "canusb"
	SourceSocketCAN = "socketcan"
)

type Config struct {
	IntervalMs int            `yaml:"interval_ms"`
	TimeoutMs  int            `yaml:"timeout_ms"`
	Listen     string         `yaml:"listen"`
	Debug      bool           `yaml:"debug"`
	Sources    []SourceConfig `yaml:"sources"`
}

type SourceConfig struct {
	Type    string `yaml:"type"`
	Channel string `yaml:"channel"`

	// sysfs
	Root     string   `yaml:"root"`
	Prefixes []string `yaml:"prefixes"`

	// slcan, canusb, socketcan
	Port      string   `yaml:"port"`
	Baudrate  int      `yaml:"baudrate"`
	CANRate   float64  `yaml:"canrate"` // kbit/s
	Configure bool     `yaml:"configure"`
	Filter    []uint32 `yaml:"filter"`

	// virtual
	FramesPerSecond int `yaml:"frames_per_second"`
	ErrorEvery      int `yaml:"error_every"`
}

// Default is used when no config file is given.
func Default() *Config {
	cfg := &Config{
		Sources: []SourceConfig{{Type: SourceSysfs}},
	}
	cfg.Normalize()
	return cfg
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
