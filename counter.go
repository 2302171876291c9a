package canshark

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// CounterChannel binds an adapter to a channel name.
type CounterChannel struct {
	Name    string
	Adapter Adapter
	Bitrate uint32 // bit/s
	Config  string // defaults to the formatted bitrate
}

type channelCounter struct {
	name    string
	config  string
	bitrate uint32
	adapter Adapter

	tx, rx, errs uint64
	bits         uint64 // since the last query
	since        time.Time
	fatal        error
}

// FrameCounter is a StatsSource tallying the frames seen on a set of adapters.
// Load is computed over the time between two queries.
type FrameCounter struct {
	mu       sync.Mutex
	channels []*channelCounter
	byName   map[string]*channelCounter
	onEvent  EventFunc
	now      func() time.Time
}

func NewFrameCounter(onEvent EventFunc) *FrameCounter {
	return &FrameCounter{
		byName:  make(map[string]*channelCounter),
		onEvent: onEvent,
		now:     time.Now,
	}
}

func (fc *FrameCounter) Add(ch CounterChannel) error {
	if ch.Name == "" {
		return errors.New("channel name required")
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if _, found := fc.byName[ch.Name]; found {
		return fmt.Errorf("channel %s already added", ch.Name)
	}
	config := ch.Config
	if config == "" {
		config = FormatBitrate(ch.Bitrate)
	}
	c := &channelCounter{
		name:    ch.Name,
		config:  config,
		bitrate: ch.Bitrate,
		adapter: ch.Adapter,
		since:   fc.now(),
	}
	fc.channels = append(fc.channels, c)
	fc.byName[ch.Name] = c
	return nil
}

func (fc *FrameCounter) Channels() []string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	out := make([]string, len(fc.channels))
	for i, c := range fc.channels {
		out[i] = c.name
	}
	return out
}

func (fc *FrameCounter) get(channel string) (*channelCounter, error) {
	c, found := fc.byName[channel]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, channel)
	}
	return c, nil
}

func (fc *FrameCounter) CountRx(channel string, f *CANFrame) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	c, err := fc.get(channel)
	if err != nil {
		return err
	}
	if f.FrameType == ErrorFrame {
		c.errs++
		return nil
	}
	c.rx++
	c.bits += f.Bits()
	return nil
}

func (fc *FrameCounter) CountTx(channel string, f *CANFrame) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	c, err := fc.get(channel)
	if err != nil {
		return err
	}
	c.tx++
	c.bits += f.Bits()
	return nil
}

func (fc *FrameCounter) CountError(channel string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	c, err := fc.get(channel)
	if err != nil {
		return err
	}
	c.errs++
	return nil
}

// SetFatal marks channel as broken, queries fail until the counter is rebuilt.
func (fc *FrameCounter) SetFatal(channel string, err error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if c, found := fc.byName[channel]; found && c.fatal == nil {
		c.fatal = err
	}
}

// Transmit queues f on the channel adapter and counts it as sent.
func (fc *FrameCounter) Transmit(ctx context.Context, channel string, f *CANFrame) error {
	fc.mu.Lock()
	c, err := fc.get(channel)
	fc.mu.Unlock()
	if err != nil {
		return err
	}
	if c.adapter == nil {
		return ErrNillAdapter
	}
	f.FrameType = Outgoing
	select {
	case c.adapter.Send() <- f:
		return fc.CountTx(channel, f)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains every channel adapter until ctx is done. An adapter failing
// marks its channel fatal but does not stop the others.
func (fc *FrameCounter) Run(ctx context.Context) error {
	fc.mu.Lock()
	channels := make([]*channelCounter, 0, len(fc.channels))
	for _, c := range fc.channels {
		if c.adapter != nil {
			channels = append(channels, c)
		}
	}
	fc.mu.Unlock()

	errg, ctx := errgroup.WithContext(ctx)
	for _, c := range channels {
		c := c
		errg.Go(func() error {
			fc.drain(ctx, c)
			return nil
		})
	}
	return errg.Wait()
}

func (fc *FrameCounter) drain(ctx context.Context, c *channelCounter) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-c.adapter.Err():
			if err == nil {
				err = ErrAdapterClosed
			}
			fc.SetFatal(c.name, err)
			fc.event(EventTypeError, c.name+": "+err.Error())
			return
		case e := <-c.adapter.Event():
			// bus errors arrive as error frames, events never count as error packets
			fc.event(e.Type, c.name+": "+e.Details)
		case f, ok := <-c.adapter.Recv():
			if !ok {
				fc.SetFatal(c.name, ErrAdapterClosed)
				return
			}
			fc.CountRx(c.name, f)
		}
	}
}

func (fc *FrameCounter) ListChannelStats(ctx context.Context) ([]ChannelStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for _, c := range fc.channels {
		if c.fatal != nil {
			return nil, SourceUnavailable(fmt.Errorf("%s: %w", c.name, c.fatal))
		}
	}
	now := fc.now()
	out := make([]ChannelStat, 0, len(fc.channels))
	for _, c := range fc.channels {
		out = append(out, ChannelStat{
			Channel:    c.name,
			Load:       BusLoad(c.bits, c.bitrate, now.Sub(c.since)),
			Config:     c.config,
			TxPackets:  c.tx,
			RxPackets:  c.rx,
			ErrPackets: c.errs,
		})
		c.bits = 0
		c.since = now
	}
	return out, nil
}

// Close closes every adapter.
func (fc *FrameCounter) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	var errs []error
	for _, c := range fc.channels {
		if c.adapter == nil {
			continue
		}
		if err := c.adapter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}

func (fc *FrameCounter) event(t EventType, details string) {
	if fc.onEvent != nil {
		fc.onEvent(Event{Type: t, Details: details})
	}
}
