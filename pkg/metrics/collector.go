// Package metrics exposes the rows of a stats view as prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"github.com/roffe/canshark"
)

const namespace = "canshark"

var channelLabelNames = []string{"channel", "config"}

func newChannelMetric(metricName, docString string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(namespace, "channel", metricName), docString, channelLabelNames, nil)
}

var (
	upMetric         = prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "up"), "Was the last poll of the statistics source successful.", nil, nil)
	channelsMetric   = prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "channels"), "Number of channels displayed.", nil, nil)
	pollsMetric      = prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "polls_total"), "Number of polls of the statistics source.", nil, nil)
	pollErrorsMetric = prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "poll_errors_total"), "Number of failed polls of the statistics source.", nil, nil)

	loadMetric  = newChannelMetric("load_percent", "Bus load in percent.")
	txMetric    = newChannelMetric("tx_packets_total", "Transmitted packets.")
	rxMetric    = newChannelMetric("rx_packets_total", "Received packets.")
	errorMetric = newChannelMetric("error_packets_total", "Error packets.")
)

// View is the part of canshark.StatsView the collector reads.
type View interface {
	Rows() []canshark.ChannelStat
	Status() canshark.ViewStatus
}

// Collector reads the displayed rows on every scrape, it never polls the source itself.
type Collector struct {
	view View
}

func NewCollector(view View) *Collector {
	return &Collector{view: view}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upMetric
	ch <- channelsMetric
	ch <- pollsMetric
	ch <- pollErrorsMetric
	ch <- loadMetric
	ch <- txMetric
	ch <- rxMetric
	ch <- errorMetric
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.view.Status()
	up := 0.0
	if st.LastErr == nil && !st.LastUpdate.IsZero() {
		up = 1
	}
	rows := c.view.Rows()
	ch <- prometheus.MustNewConstMetric(upMetric, prometheus.GaugeValue, up)
	ch <- prometheus.MustNewConstMetric(channelsMetric, prometheus.GaugeValue, float64(len(rows)))
	ch <- prometheus.MustNewConstMetric(pollsMetric, prometheus.CounterValue, float64(st.Ticks))
	ch <- prometheus.MustNewConstMetric(pollErrorsMetric, prometheus.CounterValue, float64(st.Failures))
	for _, r := range rows {
		ch <- prometheus.MustNewConstMetric(loadMetric, prometheus.GaugeValue, r.Load, r.Channel, r.Config)
		ch <- prometheus.MustNewConstMetric(txMetric, prometheus.CounterValue, float64(r.TxPackets), r.Channel, r.Config)
		ch <- prometheus.MustNewConstMetric(rxMetric, prometheus.CounterValue, float64(r.RxPackets), r.Channel, r.Config)
		ch <- prometheus.MustNewConstMetric(errorMetric, prometheus.CounterValue, float64(r.ErrPackets), r.Channel, r.Config)
	}
}

// Handler registers the collector with a fresh registry and returns the /metrics handler.
func Handler(view View) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(view)); err != nil {
		return nil, err
	}
	if err := reg.Register(version.NewCollector(namespace)); err != nil {
		return nil, err
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}
