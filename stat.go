package canshark

import (
	"fmt"
	"math"
	"strconv"
)

// ChannelStat is one row of bus statistics, produced fresh on every poll.
type ChannelStat struct {
	Channel    string
	Load       float64 // percent 0-100
	Config     string
	TxPackets  uint64
	RxPackets  uint64
	ErrPackets uint64
}

func (s ChannelStat) Validate() error {
	if s.Channel == "" {
		return &InvalidStatError{Channel: s.Channel, Reason: "empty channel id"}
	}
	if math.IsNaN(s.Load) || s.Load < 0 || s.Load > 100 {
		return &InvalidStatError{Channel: s.Channel, Reason: "load " + strconv.FormatFloat(s.Load, 'f', -1, 64) + " out of range"}
	}
	return nil
}

// Resets reports whether any counter went backwards compared to prev.
func (s ChannelStat) Resets(prev ChannelStat) bool {
	return s.TxPackets < prev.TxPackets ||
		s.RxPackets < prev.RxPackets ||
		s.ErrPackets < prev.ErrPackets
}

func (s ChannelStat) String() string {
	return fmt.Sprintf("%s load: %.1f%% config: %s tx: %d rx: %d err: %d", s.Channel, s.Load, s.Config, s.TxPackets, s.RxPackets, s.ErrPackets)
}

// ClampLoad limits a computed load to the valid 0-100 range.
func ClampLoad(load float64) float64 {
	switch {
	case math.IsNaN(load), load < 0:
		return 0
	case load > 100:
		return 100
	}
	return load
}

// FormatBitrate renders a bitrate in bit/s the way channels are configured, 500000 -> 500k.
func FormatBitrate(bitrate uint32) string {
	switch {
	case bitrate == 0:
		return "-"
	case bitrate%1000000 == 0:
		return strconv.FormatUint(uint64(bitrate/1000000), 10) + "M"
	case bitrate%1000 == 0:
		return strconv.FormatUint(uint64(bitrate/1000), 10) + "k"
	case bitrate > 1000:
		return strconv.FormatFloat(float64(bitrate)/1000, 'f', 3, 64) + "k"
	}
	return strconv.FormatUint(uint64(bitrate), 10)
}
