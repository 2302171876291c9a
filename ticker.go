package canshark

import "time"

// Ticker is the scheduler driving a StatsView.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type NewTickerFunc func(time.Duration) Ticker

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.Ticker.C
}

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}
