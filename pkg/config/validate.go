package config

import (
	"errors"
	"fmt"

	"github.com/roffe/canshark"
)

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.IntervalMs <= 0 {
		errs = append(errs, errors.New("interval_ms must be > 0"))
	}
	if c.TimeoutMs < 0 {
		errs = append(errs, errors.New("timeout_ms must be >= 0"))
	}
	if len(c.Sources) == 0 {
		errs = append(errs, errors.New("at least one source required"))
	}
	channels := make(map[string]int)
	for i, s := range c.Sources {
		prefix := fmt.Sprintf("sources[%d] (%s)", i, s.Type)
		switch s.Type {
		case SourceSysfs:
			continue
		case SourceVirtual:
			if s.FramesPerSecond < 0 || s.FramesPerSecond > canshark.MaxVirtualFPS {
				errs = append(errs, fmt.Errorf("%s: frames_per_second must be within 1..%d", prefix, canshark.MaxVirtualFPS))
			}
			if s.ErrorEvery < 0 {
				errs = append(errs, fmt.Errorf("%s: error_every must be >= 0", prefix))
			}
		case SourceSLCan, SourceCANUSB:
			if s.Port == "" {
				errs = append(errs, fmt.Errorf("%s: port required", prefix))
			}
			if s.Baudrate <= 0 {
				errs = append(errs, fmt.Errorf("%s: baudrate must be > 0", prefix))
			}
		case SourceSocketCAN:
			if s.Port == "" {
				errs = append(errs, fmt.Errorf("%s: port required", prefix))
			}
		case "":
			errs = append(errs, fmt.Errorf("sources[%d]: type required", i))
			continue
		default:
			errs = append(errs, fmt.Errorf("sources[%d]: unknown type %q", i, s.Type))
			continue
		}
		if s.CANRate <= 0 {
			errs = append(errs, fmt.Errorf("%s: canrate must be > 0", prefix))
		}
		if s.Channel == "" {
			errs = append(errs, fmt.Errorf("%s: channel required", prefix))
			continue
		}
		if prev, dup := channels[s.Channel]; dup {
			errs = append(errs, fmt.Errorf("%s: channel %q already used by sources[%d]", prefix, s.Channel, prev))
			continue
		}
		channels[s.Channel] = i
	}
	return errors.Join(errs...)
}
