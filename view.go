package canshark

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultInterval = 100 * time.Millisecond

// StatsView keeps a Table in sync with a StatsSource, refreshed on a fixed period.
type StatsView struct {
	src       StatsSource
	table     *Table
	display   Display
	onEvent   EventFunc
	interval  time.Duration
	timeout   time.Duration
	newTicker NewTickerFunc

	// held for the duration of a tick, ticks never overlap
	tickMu sync.Mutex

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}

	ticks      atomic.Uint64
	failures   atomic.Uint64
	lastMu     sync.Mutex
	lastErr    error
	lastUpdate time.Time
}

type ViewStatus struct {
	Ticks      uint64
	Failures   uint64
	LastErr    error
	LastUpdate time.Time
}

func NewStatsView(src StatsSource, opts ...Option) (*StatsView, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	v := &StatsView{
		src:       src,
		table:     NewTable(),
		onEvent:   LogEvents(false),
		interval:  DefaultInterval,
		newTicker: newTimeTicker,
	}
	for _, o := range opts {
		if err := o(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Start arms the poll timer, calling Start on a running view does nothing.
func (v *StatsView) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.running.Load() {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.done = make(chan struct{})
	v.running.Store(true)
	go v.run(ctx, v.newTicker(v.interval), v.done)
	v.event(EventTypeDebug, fmt.Sprintf("polling every %s", v.interval))
}

// Stop disarms the timer and returns once no tick is executing.
// No source reads happen after Stop returns.
func (v *StatsView) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.running.Load() {
		return
	}
	v.running.Store(false)
	v.cancel()
	<-v.done
	// wait out a tick started from outside the poll loop
	v.tickMu.Lock()
	v.tickMu.Unlock()
	v.event(EventTypeDebug, "polling stopped")
}

func (v *StatsView) Running() bool {
	return v.running.Load()
}

func (v *StatsView) run(ctx context.Context, ticker Ticker, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			v.Tick(ctx)
		}
	}
}

// Tick polls the source once and reconciles the table. It reports false when
// the view is not running or another tick is still executing.
func (v *StatsView) Tick(ctx context.Context) bool {
	if !v.running.Load() {
		return false
	}
	if !v.tickMu.TryLock() {
		v.event(EventTypeDebug, "tick skipped, previous tick still running")
		return false
	}
	defer v.tickMu.Unlock()
	if !v.running.Load() {
		return false
	}
	v.ticks.Add(1)

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	snapshot, err := v.src.ListChannelStats(ctx)
	if err != nil {
		if ctx.Err() != nil && !v.running.Load() {
			// cancelled by Stop
			return true
		}
		v.failures.Add(1)
		v.setLast(err)
		if IsSourceUnavailable(err) {
			v.event(EventTypeError, err.Error())
		} else {
			v.event(EventTypeError, "stats source: "+err.Error())
		}
		return true
	}

	valid := make([]ChannelStat, 0, len(snapshot))
	seen := make(map[string]bool, len(snapshot))
	for _, s := range snapshot {
		if err := s.Validate(); err != nil {
			v.event(EventTypeWarning, err.Error())
			continue
		}
		if seen[s.Channel] {
			v.event(EventTypeWarning, "channel "+s.Channel+" reported more than once, last value kept")
		}
		seen[s.Channel] = true
		valid = append(valid, s)
	}

	diff := v.table.Apply(valid)
	v.setLast(nil)
	for _, ch := range diff.Added {
		v.event(EventTypeDebug, "channel added: "+ch)
	}
	for _, ch := range diff.Removed {
		v.event(EventTypeDebug, "channel removed: "+ch)
	}
	for _, ch := range diff.Reset {
		v.event(EventTypeInfo, "channel "+ch+" counters reset")
	}
	if v.display != nil {
		v.display.Render(v.table.Rows())
	}
	return true
}

// Rows returns a copy of the displayed rows.
func (v *StatsView) Rows() []ChannelStat {
	return v.table.Rows()
}

func (v *StatsView) Table() *Table {
	return v.table
}

func (v *StatsView) Status() ViewStatus {
	v.lastMu.Lock()
	defer v.lastMu.Unlock()
	return ViewStatus{
		Ticks:      v.ticks.Load(),
		Failures:   v.failures.Load(),
		LastErr:    v.lastErr,
		LastUpdate: v.lastUpdate,
	}
}

func (v *StatsView) setLast(err error) {
	v.lastMu.Lock()
	defer v.lastMu.Unlock()
	v.lastErr = err
	if err == nil {
		v.lastUpdate = time.Now()
	}
}

func (v *StatsView) event(t EventType, details string) {
	if v.onEvent != nil {
		v.onEvent(Event{Type: t, Details: details})
	}
}
