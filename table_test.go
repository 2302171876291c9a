package canshark

import (
	"reflect"
	"testing"
)

func TestTable_Apply(t *testing.T) {
	tests := []struct {
		name      string
		initial   []ChannelStat
		snapshot  []ChannelStat
		wantOrder []string
		wantDiff  Diff
	}{
		{
			name:      "empty to rows",
			snapshot:  []ChannelStat{{Channel: "can1"}, {Channel: "can0"}},
			wantOrder: []string{"can1", "can0"},
			wantDiff:  Diff{Added: []string{"can1", "can0"}},
		},
		{
			name:      "rows to empty",
			initial:   []ChannelStat{{Channel: "can0"}, {Channel: "can1"}},
			snapshot:  nil,
			wantOrder: []string{},
			wantDiff:  Diff{Removed: []string{"can0", "can1"}},
		},
		{
			name:      "existing keep position",
			initial:   []ChannelStat{{Channel: "can0"}, {Channel: "can1"}},
			snapshot:  []ChannelStat{{Channel: "can1", TxPackets: 1}, {Channel: "can0"}},
			wantOrder: []string{"can0", "can1"},
			wantDiff:  Diff{Updated: []string{"can1"}},
		},
		{
			name:      "new appended",
			initial:   []ChannelStat{{Channel: "can1"}},
			snapshot:  []ChannelStat{{Channel: "can0"}, {Channel: "can1"}},
			wantOrder: []string{"can1", "can0"},
			wantDiff:  Diff{Added: []string{"can0"}},
		},
		{
			name:      "removed in the middle",
			initial:   []ChannelStat{{Channel: "can0"}, {Channel: "can1"}, {Channel: "can2"}},
			snapshot:  []ChannelStat{{Channel: "can2"}, {Channel: "can0"}},
			wantOrder: []string{"can0", "can2"},
			wantDiff:  Diff{Removed: []string{"can1"}},
		},
		{
			name:      "duplicates collapse",
			snapshot:  []ChannelStat{{Channel: "can0", TxPackets: 1}, {Channel: "can1"}, {Channel: "can0", TxPackets: 2}},
			wantOrder: []string{"can0", "can1"},
			wantDiff:  Diff{Added: []string{"can0", "can1"}},
		},
		{
			name:      "reset",
			initial:   []ChannelStat{{Channel: "can0", RxPackets: 10}},
			snapshot:  []ChannelStat{{Channel: "can0", RxPackets: 1}},
			wantOrder: []string{"can0"},
			wantDiff:  Diff{Updated: []string{"can0"}, Reset: []string{"can0"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable()
			tbl.Apply(tt.initial)
			diff := tbl.Apply(tt.snapshot)
			if got := channels(tbl.Rows()); !reflect.DeepEqual(got, tt.wantOrder) {
				t.Errorf("order = %v, want %v", got, tt.wantOrder)
			}
			if !reflect.DeepEqual(diff, tt.wantDiff) {
				t.Errorf("diff = %+v, want %+v", diff, tt.wantDiff)
			}
			if tbl.Len() != len(tt.wantOrder) {
				t.Errorf("Len() = %d, want %d", tbl.Len(), len(tt.wantOrder))
			}
		})
	}
}

func TestTable_DuplicateKeepsLastValue(t *testing.T) {
	tbl := NewTable()
	tbl.Apply([]ChannelStat{{Channel: "can0", TxPackets: 1}, {Channel: "can0", TxPackets: 2}})
	r, ok := tbl.Get("can0")
	if !ok {
		t.Fatal("can0 missing")
	}
	if r.TxPackets != 2 {
		t.Errorf("tx = %d, want 2", r.TxPackets)
	}
	if _, ok := tbl.Get("can1"); ok {
		t.Error("can1 should not exist")
	}
}

func TestTable_RowsIsCopy(t *testing.T) {
	tbl := NewTable()
	tbl.Apply([]ChannelStat{{Channel: "can0"}})
	rows := tbl.Rows()
	rows[0].Channel = "mutated"
	if r := tbl.Rows(); r[0].Channel != "can0" {
		t.Errorf("table modified through Rows(): %v", r)
	}
}

func TestTable_Cell(t *testing.T) {
	tbl := NewTable()
	tbl.Apply([]ChannelStat{{Channel: "can0", Load: 12, Config: "500k", TxPackets: 10, RxPackets: 5, ErrPackets: 1}})
	want := []string{"can0", "12.0%", "500k", "10", "5", "1"}
	for col, w := range want {
		if got := tbl.Cell(0, col); got != w {
			t.Errorf("Cell(0, %d) = %q, want %q", col, got, w)
		}
	}
	if got := tbl.Cell(1, 0); got != "" {
		t.Errorf("Cell(1, 0) = %q, want empty", got)
	}
	if got := tbl.Cell(0, len(Columns)); got != "" {
		t.Errorf("Cell(0, %d) = %q, want empty", len(Columns), got)
	}
}

func TestColumns(t *testing.T) {
	want := []string{"Channel", "Load", "Config", "TX pkts", "RX pkts", "Errors"}
	for i, c := range Columns {
		if c.Header != want[i] {
			t.Errorf("column %d header = %q, want %q", i, c.Header, want[i])
		}
	}
}
