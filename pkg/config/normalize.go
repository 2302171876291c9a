package config

import "strings"

const (
	defaultIntervalMs = 1000
	defaultListen     = ":9624"
	defaultBaudrate   = 115200
	defaultCANRate    = 500
	defaultFPS        = 100
)

// Normalize fills in defaults, it never overrides a set value.
func (c *Config) Normalize() {
	if c.IntervalMs == 0 {
		c.IntervalMs = defaultIntervalMs
	}
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	for i := range c.Sources {
		s := &c.Sources[i]
		s.Type = strings.ToLower(strings.TrimSpace(s.Type))
		switch s.Type {
		case SourceSysfs:
			if len(s.Prefixes) == 0 {
				s.Prefixes = []string{"can", "vcan", "slcan"}
			}
		case SourceVirtual:
			if s.Channel == "" {
				s.Channel = "virtual0"
			}
			if s.CANRate == 0 {
				s.CANRate = defaultCANRate
			}
			if s.FramesPerSecond == 0 {
				s.FramesPerSecond = defaultFPS
			}
		case SourceSLCan, SourceCANUSB:
			if s.Channel == "" {
				s.Channel = s.Type + "0"
			}
			if s.Baudrate == 0 {
				s.Baudrate = defaultBaudrate
			}
			if s.CANRate == 0 {
				s.CANRate = defaultCANRate
			}
		case SourceSocketCAN:
			if s.Channel == "" {
				s.Channel = s.Port
			}
			if s.CANRate == 0 {
				s.CANRate = defaultCANRate
			}
		}
	}
}
