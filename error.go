package canshark

import (
	"errors"
	"fmt"
)

type sourceUnavailableError struct {
	error
}

func (e sourceUnavailableError) Error() string {
	if e.error == nil {
		return "source unavailable"
	}
	return "source unavailable: " + e.error.Error()
}

func (e sourceUnavailableError) Unwrap() error {
	return e.error
}

func (e sourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// SourceUnavailable wraps an error in `sourceUnavailableError` struct
func SourceUnavailable(err error) error {
	return sourceUnavailableError{err}
}

// IsSourceUnavailable checks if error is an instance of `sourceUnavailableError`
func IsSourceUnavailable(err error) bool {
	var e sourceUnavailableError
	return errors.As(err, &e)
}

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrNilSource         = errors.New("stats source is nil")
	ErrNillAdapter       = errors.New("adapter is nil")
	ErrDroppedFrame      = errors.New("adapter incoming channel full")
	ErrUnknownChannel    = errors.New("unknown channel")
	ErrInvalidStat       = errors.New("invalid channel stat")
	ErrAdapterClosed     = errors.New("adapter closed")
)

type InvalidStatError struct {
	Channel string
	Reason  string
}

func (e *InvalidStatError) Error() string {
	return fmt.Sprintf("%s: channel %q: %s", ErrInvalidStat, e.Channel, e.Reason)
}

func (e *InvalidStatError) Unwrap() error {
	return ErrInvalidStat
}
