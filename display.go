package canshark

import (
	"errors"
	"io"
)

// Display renders the full row set after every successful refresh.
type Display interface {
	Render(rows []ChannelStat)
}

type DisplayFunc func(rows []ChannelStat)

func (f DisplayFunc) Render(rows []ChannelStat) {
	f(rows)
}

type Displays []Display

func (d Displays) Render(rows []ChannelStat) {
	for _, display := range d {
		display.Render(rows)
	}
}

// Shell owns one view and the resources behind its source. It is what a
// hosting window or process calls on its lifecycle hooks.
type Shell struct {
	View    *StatsView
	closers []io.Closer
}

func NewShell(view *StatsView, closers ...io.Closer) *Shell {
	return &Shell{View: view, closers: closers}
}

func (s *Shell) OnViewStart() {
	s.View.Start()
}

// OnViewClose stops the view before any resource is released.
func (s *Shell) OnViewClose() error {
	s.View.Stop()
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
