// Package alarm classifies fault events, keeps running per-level counters
// and forwards structured alarm events to the host.
package alarm

import (
	"sync"
	"time"

	"threshctl/internal/logger"
)

// Level classifies a single reported event.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Status is the aggregate alarm state a controller exposes to the host.
type Status int

const (
	StatusNormal Status = iota
	StatusWarning
	StatusMajor
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "NORMAL"
	case StatusWarning:
		return "WARNING"
	case StatusMajor:
		return "MAJOR"
	case StatusInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// StatusFor maps an event level to the alarm status it drives.
func StatusFor(l Level) Status {
	switch l {
	case LevelInfo:
		return StatusNormal
	case LevelWarning:
		return StatusWarning
	case LevelError:
		return StatusMajor
	case LevelFatal:
		return StatusInvalid
	default:
		return StatusInvalid
	}
}

// Category identifies the subsystem or failure path an event belongs to.
type Category int

const (
	CategoryNone Category = iota
	CategoryRead
	CategoryWrite
	CategoryState
	CategoryComm
	CategoryTimeout
	CategoryHWLimit
	CategoryCalc
	CategorySoft
	CategoryUndefined
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryRead:
		return "read"
	case CategoryWrite:
		return "write"
	case CategoryState:
		return "state"
	case CategoryComm:
		return "comm"
	case CategoryTimeout:
		return "timeout"
	case CategoryHWLimit:
		return "hw_limit"
	case CategoryCalc:
		return "calc"
	case CategorySoft:
		return "soft"
	case CategoryUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Event is a single classified alarm occurrence.
type Event struct {
	Level     Level
	Category  Category
	Source    string
	Message   string
	Timestamp time.Time
}

// Sink receives alarm events for host-side delivery.
type Sink interface {
	Alarm(Event)
}

// Statistics holds the running event counters per level.
type Statistics struct {
	Info    uint64
	Warning uint64
	Error   uint64
	Fatal   uint64
}

// Reporter accumulates alarm statistics and fans events out to sinks.
// Safe for concurrent use from the command path and the monitoring task.
type Reporter struct {
	mu    sync.Mutex
	stats Statistics
	sinks []Sink
}

// NewReporter creates a reporter forwarding events to the given sinks.
func NewReporter(sinks ...Sink) *Reporter {
	return &Reporter{sinks: sinks}
}

// AddSink registers an additional event sink.
func (r *Reporter) AddSink(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, s)
}

// Report records a classified event, updates the counters and forwards the
// event to every sink. It returns the event for callers that need it.
func (r *Reporter) Report(level Level, category Category, source, message string) Event {
	event := Event{
		Level:     level,
		Category:  category,
		Source:    source,
		Message:   message,
		Timestamp: time.Now(),
	}

	r.mu.Lock()
	switch level {
	case LevelInfo:
		r.stats.Info++
	case LevelWarning:
		r.stats.Warning++
	case LevelError:
		r.stats.Error++
	case LevelFatal:
		r.stats.Fatal++
	}
	sinks := make([]Sink, len(r.sinks))
	copy(sinks, r.sinks)
	r.mu.Unlock()

	logEvent(event)

	for _, s := range sinks {
		s.Alarm(event)
	}

	return event
}

// Statistics returns a copy of the current counters.
func (r *Reporter) Statistics() Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Reset zeroes all counters.
func (r *Reporter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = Statistics{}
}

// logEvent mirrors the event into the structured log. Fatal events are
// logged at error level: the controller disables itself instead of exiting.
func logEvent(e Event) {
	var le *logger.LogEvent
	switch e.Level {
	case LevelInfo:
		le = logger.Info()
	case LevelWarning:
		le = logger.Warn()
	default:
		le = logger.Error()
	}
	le.Str("severity", e.Level.String()).
		Str("category", e.Category.String()).
		Str("source", e.Source).
		Msg(e.Message)
}
