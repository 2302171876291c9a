package config

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/roffe/canshark"
)

func adapterName(s SourceConfig) string {
	switch s.Type {
	case SourceVirtual:
		return "Virtual"
	case SourceSLCan:
		return "SLCan"
	case SourceCANUSB:
		return "CANUSB"
	case SourceSocketCAN:
		return "SocketCAN"
	}
	return ""
}

// Build opens every configured source. Frame based sources share one
// FrameCounter that keeps counting until ctx is done or the returned
// closer is closed.
func (c *Config) Build(ctx context.Context, onEvent canshark.EventFunc) (canshark.StatsSource, io.Closer, error) {
	var sources canshark.MultiSource
	counter := canshark.NewFrameCounter(onEvent)
	counterAdded := false

	for _, s := range c.Sources {
		if s.Type == SourceSysfs {
			src := canshark.NewSysfsSource(s.Prefixes...)
			src.OnEvent = onEvent
			if s.Root != "" {
				src.Root = s.Root
			}
			sources = append(sources, src)
			continue
		}
		acfg := &canshark.AdapterConfig{
			Debug:        c.Debug,
			Port:         s.Port,
			PortBaudrate: s.Baudrate,
			CANRate:      s.CANRate,
			CANFilter:    s.Filter,
			AdditionalConfig: map[string]string{
				"fps":         strconv.Itoa(s.FramesPerSecond),
				"error_every": strconv.Itoa(s.ErrorEvery),
				"configure":   strconv.FormatBool(s.Configure),
			},
		}
		dev, err := canshark.NewAdapter(adapterName(s), acfg)
		if err == nil {
			err = dev.Open(ctx)
		}
		if err != nil {
			counter.Close()
			return nil, nil, fmt.Errorf("%s: %w", s.Channel, err)
		}
		if err := counter.Add(canshark.CounterChannel{
			Name:    s.Channel,
			Adapter: dev,
			Bitrate: acfg.Bitrate(),
		}); err != nil {
			dev.Close()
			counter.Close()
			return nil, nil, err
		}
		if !counterAdded {
			sources = append(sources, counter)
			counterAdded = true
		}
	}

	if counterAdded {
		go counter.Run(ctx)
	}
	if len(sources) == 1 {
		return sources[0], counter, nil
	}
	return sources, counter, nil
}
