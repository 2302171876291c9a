package canshark

import (
	"strconv"
	"sync"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

type Column struct {
	Name   string
	Header string
	Align  Alignment
}

// Columns is the fixed column order of the statistics table.
var Columns = []Column{
	{Name: "channel", Header: "Channel", Align: AlignCenter},
	{Name: "load", Header: "Load", Align: AlignCenter},
	{Name: "config", Header: "Config", Align: AlignCenter},
	{Name: "pkts_tx", Header: "TX pkts", Align: AlignRight},
	{Name: "pkts_rx", Header: "RX pkts", Align: AlignRight},
	{Name: "pkts_err", Header: "Errors", Align: AlignRight},
}

// Diff lists the channels touched by one Apply.
type Diff struct {
	Added   []string
	Updated []string
	Removed []string
	Reset   []string // channels whose counters went backwards
}

func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && len(d.Removed) == 0
}

// Table holds rows keyed by channel in first-seen order.
type Table struct {
	mu    sync.RWMutex
	rows  []ChannelStat
	index map[string]int
}

func NewTable() *Table {
	return &Table{
		index: make(map[string]int),
	}
}

// Apply reconciles the table against a full snapshot. Channels missing from
// the snapshot are removed, new ones appended and existing rows keep their
// position. Duplicate channels in a snapshot collapse into the last value.
func (t *Table) Apply(snapshot []ChannelStat) Diff {
	latest := make(map[string]ChannelStat, len(snapshot))
	order := make([]string, 0, len(snapshot))
	for _, s := range snapshot {
		if _, seen := latest[s.Channel]; !seen {
			order = append(order, s.Channel)
		}
		latest[s.Channel] = s
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var diff Diff
	rows := make([]ChannelStat, 0, len(order))
	for _, row := range t.rows {
		next, ok := latest[row.Channel]
		if !ok {
			diff.Removed = append(diff.Removed, row.Channel)
			continue
		}
		if next.Resets(row) {
			diff.Reset = append(diff.Reset, row.Channel)
		}
		if next != row {
			diff.Updated = append(diff.Updated, row.Channel)
		}
		rows = append(rows, next)
	}
	for _, ch := range order {
		if _, exists := t.index[ch]; exists {
			continue
		}
		diff.Added = append(diff.Added, ch)
		rows = append(rows, latest[ch])
	}

	t.rows = rows
	t.index = make(map[string]int, len(rows))
	for i, row := range rows {
		t.index[row.Channel] = i
	}
	return diff
}

// Rows returns a copy of the current rows.
func (t *Table) Rows() []ChannelStat {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]ChannelStat, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table) Get(channel string) (ChannelStat, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.index[channel]
	if !ok {
		return ChannelStat{}, false
	}
	return t.rows[i], true
}

// Cell returns the display text for row and column, empty when out of range.
func (t *Table) Cell(row, col int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if row < 0 || row >= len(t.rows) {
		return ""
	}
	return CellText(t.rows[row], col)
}

// CellText formats one field of s by column index.
func CellText(s ChannelStat, col int) string {
	switch col {
	case 0:
		return s.Channel
	case 1:
		return strconv.FormatFloat(s.Load, 'f', 1, 64) + "%"
	case 2:
		return s.Config
	case 3:
		return strconv.FormatUint(s.TxPackets, 10)
	case 4:
		return strconv.FormatUint(s.RxPackets, 10)
	case 5:
		return strconv.FormatUint(s.ErrPackets, 10)
	}
	return ""
}
