package canshark

import (
	"fmt"
	"log"
)

type EventType int

func (et EventType) String() string {
	switch et {
	case EventTypeError:
		return "ERROR"
	case EventTypeWarning:
		return "WARN"
	case EventTypeInfo:
		return "INFO"
	case EventTypeDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

const (
	EventTypeError EventType = iota
	EventTypeWarning
	EventTypeInfo
	EventTypeDebug
)

type Event struct {
	Type    EventType
	Details string
}

func (e Event) String() string {
	return fmt.Sprintf("[%s] %s", e.Type.String(), e.Details)
}

// EventFunc receives events from views, counters and adapters.
type EventFunc func(Event)

// sink, event helper, then the code raising the event
const eventCallDepth = 3

// LogEvents is the default event sink, debug events are only written when debug is set.
// Events are expected to pass through one helper method, the logged file and
// line are those of its caller.
func LogEvents(debug bool) EventFunc {
	return func(e Event) {
		if e.Type == EventTypeDebug && !debug {
			return
		}
		log.Output(eventCallDepth, e.String())
	}
}
