package canshark

import (
	"errors"
	"time"
)

type Option func(v *StatsView) error

func OptInterval(d time.Duration) Option {
	return func(v *StatsView) error {
		if d <= 0 {
			return errors.New("interval must be > 0")
		}
		v.interval = d
		return nil
	}
}

// OptTimeout bounds every source query, zero disables the deadline.
func OptTimeout(d time.Duration) Option {
	return func(v *StatsView) error {
		if d < 0 {
			return errors.New("timeout must be >= 0")
		}
		v.timeout = d
		return nil
	}
}

func OptDisplay(displays ...Display) Option {
	return func(v *StatsView) error {
		switch len(displays) {
		case 0:
			v.display = nil
		case 1:
			v.display = displays[0]
		default:
			v.display = Displays(displays)
		}
		return nil
	}
}

func OptOnEvent(fn EventFunc) Option {
	return func(v *StatsView) error {
		v.onEvent = fn
		return nil
	}
}

func OptTicker(fn NewTickerFunc) Option {
	return func(v *StatsView) error {
		if fn == nil {
			return errors.New("ticker func is nil")
		}
		v.newTicker = fn
		return nil
	}
}
