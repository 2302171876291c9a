package canshark

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const DefaultSysfsRoot = "/sys/class/net"

var DefaultSysfsPrefixes = []string{"can", "vcan", "slcan"}

type sysfsSample struct {
	packets, bytes uint64
	at             time.Time
}

// SysfsSource reads the kernel interface counters of CAN network interfaces.
type SysfsSource struct {
	Root     string
	Prefixes []string
	// Bitrate looks up the configured bitrate of an interface in bit/s.
	Bitrate func(iface string) (uint32, error)
	OnEvent EventFunc

	now  func() time.Time
	mu   sync.Mutex
	prev map[string]sysfsSample
	// interfaces whose failed bitrate lookup was already reported
	noBitrate map[string]bool
}

func NewSysfsSource(prefixes ...string) *SysfsSource {
	if len(prefixes) == 0 {
		prefixes = DefaultSysfsPrefixes
	}
	return &SysfsSource{
		Root:      DefaultSysfsRoot,
		Prefixes:  prefixes,
		Bitrate:   interfaceBitrate,
		now:       time.Now,
		prev:      make(map[string]sysfsSample),
		noBitrate: make(map[string]bool),
	}
}

func (s *SysfsSource) match(name string) bool {
	for _, p := range s.Prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func (s *SysfsSource) ListChannelStats(ctx context.Context) ([]ChannelStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, SourceUnavailable(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	seen := make(map[string]bool)
	out := make([]ChannelStat, 0)
	for _, e := range entries {
		name := e.Name()
		if !s.match(name) {
			continue
		}
		c, err := readCounters(filepath.Join(s.Root, name, "statistics"))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// interface went away
				continue
			}
			return nil, SourceUnavailable(fmt.Errorf("%s: %w", name, err))
		}
		seen[name] = true

		var bitrate uint32
		if s.Bitrate != nil {
			var err error
			bitrate, err = s.Bitrate(name)
			switch {
			case err == nil:
				delete(s.noBitrate, name)
			case !s.noBitrate[name]:
				s.noBitrate[name] = true
				s.event(EventTypeDebug, name+": bitrate unknown: "+err.Error())
			}
		}
		sample := sysfsSample{
			packets: c["tx_packets"] + c["rx_packets"],
			bytes:   c["tx_bytes"] + c["rx_bytes"],
			at:      now,
		}
		var load float64
		if prev, ok := s.prev[name]; ok && sample.packets >= prev.packets && sample.bytes >= prev.bytes {
			load = BusLoad(EstimateBits(sample.packets-prev.packets, sample.bytes-prev.bytes), bitrate, now.Sub(prev.at))
		}
		s.prev[name] = sample

		out = append(out, ChannelStat{
			Channel:    name,
			Load:       load,
			Config:     FormatBitrate(bitrate),
			TxPackets:  c["tx_packets"],
			RxPackets:  c["rx_packets"],
			ErrPackets: c["tx_errors"] + c["rx_errors"],
		})
	}
	for name := range s.prev {
		if !seen[name] {
			delete(s.prev, name)
			delete(s.noBitrate, name)
		}
	}
	return out, nil
}

func (s *SysfsSource) event(t EventType, details string) {
	if s.OnEvent != nil {
		s.OnEvent(Event{Type: t, Details: details})
	}
}

var counterFiles = []string{"tx_packets", "rx_packets", "tx_errors", "rx_errors", "tx_bytes", "rx_bytes"}

func readCounters(dir string) (map[string]uint64, error) {
	out := make(map[string]uint64, len(counterFiles))
	for _, name := range counterFiles {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
