package canshark

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type step struct {
	stats []ChannelStat
	err   error
}

// scriptSource returns one step per call, the last step repeats.
type scriptSource struct {
	mu    sync.Mutex
	steps []step
	calls int
}

func (s *scriptSource) ListChannelStats(ctx context.Context) ([]ChannelStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	}
	s.calls++
	return s.steps[i].stats, s.steps[i].err
}

func (s *scriptSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// blockingSource blocks every call until release is closed.
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func newBlockingSource() *blockingSource {
	return &blockingSource{
		entered: make(chan struct{}, 10),
		release: make(chan struct{}),
	}
}

func (s *blockingSource) ListChannelStats(ctx context.Context) ([]ChannelStat, error) {
	s.calls.Add(1)
	s.entered <- struct{}{}
	<-s.release
	return []ChannelStat{{Channel: "can0"}}, nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type fakeTicker struct {
	c       chan time.Time
	stopped atomic.Bool
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{c: make(chan time.Time)}
}

func (f *fakeTicker) C() <-chan time.Time {
	return f.c
}

func (f *fakeTicker) Stop() {
	f.stopped.Store(true)
}

func (f *fakeTicker) factory(time.Duration) Ticker {
	return f
}

func channels(rows []ChannelStat) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Channel
	}
	return out
}
