package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/roffe/canshark"
)

type fakeView struct {
	rows   []canshark.ChannelStat
	status canshark.ViewStatus
}

func (f *fakeView) Rows() []canshark.ChannelStat {
	return f.rows
}

func (f *fakeView) Status() canshark.ViewStatus {
	return f.status
}

func TestCollector(t *testing.T) {
	view := &fakeView{
		rows: []canshark.ChannelStat{
			{Channel: "can0", Load: 12, Config: "500k", TxPackets: 10, RxPackets: 5},
			{Channel: "can1", Load: 0.5, Config: "250k", ErrPackets: 3},
		},
		status: canshark.ViewStatus{Ticks: 7, Failures: 2, LastUpdate: time.Now()},
	}
	expected := `
# HELP canshark_up Was the last poll of the statistics source successful.
# TYPE canshark_up gauge
canshark_up 1
# HELP canshark_channels Number of channels displayed.
# TYPE canshark_channels gauge
canshark_channels 2
# HELP canshark_poll_errors_total Number of failed polls of the statistics source.
# TYPE canshark_poll_errors_total counter
canshark_poll_errors_total 2
# HELP canshark_channel_load_percent Bus load in percent.
# TYPE canshark_channel_load_percent gauge
canshark_channel_load_percent{channel="can0",config="500k"} 12
canshark_channel_load_percent{channel="can1",config="250k"} 0.5
# HELP canshark_channel_error_packets_total Error packets.
# TYPE canshark_channel_error_packets_total counter
canshark_channel_error_packets_total{channel="can0",config="500k"} 0
canshark_channel_error_packets_total{channel="can1",config="250k"} 3
`
	err := testutil.CollectAndCompare(NewCollector(view), strings.NewReader(expected),
		"canshark_up",
		"canshark_channels",
		"canshark_poll_errors_total",
		"canshark_channel_load_percent",
		"canshark_channel_error_packets_total",
	)
	if err != nil {
		t.Error(err)
	}
}

func TestCollector_Down(t *testing.T) {
	tests := []struct {
		name   string
		status canshark.ViewStatus
	}{
		{"never polled", canshark.ViewStatus{}},
		{"last poll failed", canshark.ViewStatus{LastUpdate: time.Now(), LastErr: errors.New("boom")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := &fakeView{status: tt.status}
			expected := `
# HELP canshark_up Was the last poll of the statistics source successful.
# TYPE canshark_up gauge
canshark_up 0
`
			if err := testutil.CollectAndCompare(NewCollector(view), strings.NewReader(expected), "canshark_up"); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestHandler(t *testing.T) {
	view := &fakeView{rows: []canshark.ChannelStat{{Channel: "can0", Config: "500k", TxPackets: 1}}}
	h, err := Handler(view)
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`canshark_channel_tx_packets_total{channel="can0",config="500k"} 1`,
		"canshark_build_info",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("response missing %q", want)
		}
	}
}
