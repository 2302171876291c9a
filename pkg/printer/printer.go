// Package printer writes the statistics table as plain text lines.
package printer

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/roffe/canshark"
)

var widths = []int{10, 8, 10, 12, 12, 10}

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Printer is a canshark.Display writing one block per refresh.
type Printer struct {
	mu        sync.Mutex
	w         io.Writer
	colors    bool
	timestamp bool
}

func New(w io.Writer, colors bool) *Printer {
	return &Printer{w: w, colors: colors, timestamp: true}
}

// WithoutTimestamp drops the time line above every block.
func (p *Printer) WithoutTimestamp() *Printer {
	p.timestamp = false
	return p
}

func (p *Printer) Render(rows []canshark.ChannelStat) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out strings.Builder
	if p.timestamp {
		out.WriteString(time.Now().Format("15:04:05.000") + "\n")
	}
	for i, col := range canshark.Columns {
		out.WriteString(p.paint(bold, pad(col.Header, widths[i], col.Align)))
	}
	out.WriteString("\n")
	if len(rows) == 0 {
		out.WriteString("no active channels\n")
	}
	for _, r := range rows {
		for i, col := range canshark.Columns {
			cell := pad(canshark.CellText(r, i), widths[i], col.Align)
			switch {
			case i == 1 && r.Load >= 80, i == 5 && r.ErrPackets > 0:
				cell = p.paint(red, cell)
			case i == 1 && r.Load >= 50:
				cell = p.paint(yellow, cell)
			}
			out.WriteString(cell)
		}
		out.WriteString("\n")
	}
	fmt.Fprint(p.w, out.String())
}

func (p *Printer) paint(fn func(a ...interface{}) string, s string) string {
	if !p.colors {
		return s
	}
	return fn(s)
}

func pad(s string, width int, align canshark.Alignment) string {
	if len(s) >= width {
		return s + " "
	}
	switch align {
	case canshark.AlignRight:
		return strings.Repeat(" ", width-len(s)) + s + " "
	case canshark.AlignCenter:
		left := (width - len(s)) / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left) + " "
	}
	return s + strings.Repeat(" ", width-len(s)) + " "
}
