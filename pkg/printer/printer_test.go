package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/roffe/canshark"
)

func TestPad(t *testing.T) {
	tests := []struct {
		s     string
		width int
		align canshark.Alignment
		want  string
	}{
		{"ab", 5, canshark.AlignLeft, "ab    "},
		{"ab", 5, canshark.AlignRight, "   ab "},
		{"ab", 5, canshark.AlignCenter, " ab   "},
		{"abcdef", 3, canshark.AlignRight, "abcdef "},
	}
	for _, tt := range tests {
		if got := pad(tt.s, tt.width, tt.align); got != tt.want {
			t.Errorf("pad(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestPrinter_Render(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false).WithoutTimestamp()
	p.Render([]canshark.ChannelStat{
		{Channel: "can0", Load: 12, Config: "500k", TxPackets: 10, RxPackets: 5},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	for _, h := range []string{"Channel", "Load", "Config", "TX pkts", "RX pkts", "Errors"} {
		if !strings.Contains(lines[0], h) {
			t.Errorf("header %q missing from %q", h, lines[0])
		}
	}
	if got := strings.Fields(lines[1]); strings.Join(got, " ") != "can0 12.0% 500k 10 5 0" {
		t.Errorf("row = %q", lines[1])
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("escape codes written with colors disabled")
	}
}

func TestPrinter_Empty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).WithoutTimestamp().Render(nil)
	if !strings.HasSuffix(buf.String(), "no active channels\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrinter_Colors(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = noColor }()

	var buf bytes.Buffer
	New(&buf, true).WithoutTimestamp().Render([]canshark.ChannelStat{
		{Channel: "can0", Load: 90, ErrPackets: 1},
		{Channel: "can1", Load: 60},
	})
	out := buf.String()
	if !strings.Contains(out, "\x1b[31m") {
		t.Error("high load not red")
	}
	if !strings.Contains(out, "\x1b[33m") {
		t.Error("medium load not yellow")
	}
}
